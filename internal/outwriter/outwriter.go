// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a diff report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(report, cfg, duration)
}

// WriteMetrics prints the effective factor weights using the configured output format.
func (ow *OutWriter) WriteMetrics(weights map[schema.FactorKey]float64, cfg *contract.Config) error {
	return PrintMetricsDefinitions(weights, cfg)
}

// displayDeltas selects the deltas shown to the user: unmodified rows are
// hidden unless AllDeltas is set, and the result is capped at ResultLimit.
// The report itself always keeps the complete delta list.
func displayDeltas(report *schema.Report, cfg *contract.Config) []schema.Delta {
	deltas := report.Deltas
	if !cfg.AllDeltas {
		shown := make([]schema.Delta, 0, len(deltas))
		for _, d := range deltas {
			if d.Kind != schema.UnmodifiedKind {
				shown = append(shown, d)
			}
		}
		deltas = shown
	}
	if len(deltas) > cfg.ResultLimit {
		deltas = deltas[:cfg.ResultLimit]
	}
	return deltas
}

// getMaxTablePathWidth calculates the maximum width for paths in table output
// based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Kind + Score + Label with borders/padding

	// Add the factor column
	if cfg.Detail {
		baseWidth += 45
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	// The path column shows both sides of a move
	available := (termWidth - baseWidth) / 2
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
