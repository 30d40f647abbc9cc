package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/scanwork/deltascan/core/algo"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/internal/parquet"
	"github.com/scanwork/deltascan/schema"
)

// WriteReportResults outputs the diff report, dispatching based on the output format configured.
func WriteReportResults(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)
	deltas := displayDeltas(report, cfg)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(deltas, report.Summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(deltas, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteDeltaRowsParquet(parquet.ConvertReport(deltas), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(deltas, report.Summary, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(deltas []schema.Delta, summary schema.ReportSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForReport(w, deltas, summary)
	}, "Wrote JSON")
}

// writeReportCSVResults handles opening the file and calling the CSV writer.
func writeReportCSVResults(deltas []schema.Delta, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForReport(csvWriter, deltas, fmtFloat)
	}, "Wrote CSV")
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(deltas []schema.Delta, summary schema.ReportSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Kind", "Path", "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, "Factors")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i := range deltas {
		d := &deltas[i]
		row := []string{
			strconv.Itoa(i + 1),                 // Rank
			string(d.Kind),                      // Kind
			formatDeltaPath(d, maxPathWidth),    // Path (both sides for moved)
			fmtFloat(d.Score),                   // Score
			contract.GetColorLabel(d.Score),     // Label
		}
		if cfg.Detail {
			row = append(row, detailFactors(d)) // Factor breakdown
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary footer
	if _, err := fmt.Fprintf(writer,
		"Showing %d of %d deltas (added: %d, removed: %d, modified: %d, moved: %d, unmodified: %d)\n",
		len(deltas), summary.Count(schema.AddedKind)+summary.Count(schema.RemovedKind)+
			summary.Count(schema.ModifiedKind)+summary.Count(schema.MovedKind)+summary.Count(schema.UnmodifiedKind),
		summary.Added, summary.Removed, summary.Modified, summary.Moved, summary.Unmodified); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer,
		"Changed: %.2f%% of %d old / %d new files, net size delta: %+d bytes\n",
		summary.PercentChanged, summary.TotalOldFiles, summary.TotalNewFiles, summary.NetSizeDelta); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Diff completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// detailFactors renders the factor breakdown for the detail column. Moved
// deltas also carry the rune-level similarity of the two paths, a quick
// plausibility signal for the pairing the matcher picked.
func detailFactors(d *schema.Delta) string {
	factors := schema.CanonicalFactors(d.Factors)
	if d.Kind == schema.MovedKind && d.Old != nil && d.New != nil {
		factors += fmt.Sprintf(" (%d%% similar)", algo.Similarity(d.Old.Path, d.New.Path))
	}
	return factors
}

// formatDeltaPath renders a delta's path column, showing both sides of a move.
func formatDeltaPath(d *schema.Delta, maxWidth int) string {
	if d.Kind == schema.MovedKind && d.Old != nil && d.New != nil {
		return contract.TruncatePath(d.Old.Path, maxWidth) + " => " + contract.TruncatePath(d.New.Path, maxWidth)
	}
	return contract.TruncatePath(d.Path(), maxWidth)
}

// writeCSVResultsForReport writes the diff report in CSV format.
func writeCSVResultsForReport(w *csv.Writer, deltas []schema.Delta, fmtFloat func(float64) string) error {
	// CSV header
	header := []string{
		"rank",
		"kind",
		"old_path",
		"new_path",
		"score",
		"label",
		"factors",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range deltas {
		d := &deltas[i]
		var oldPath, newPath string
		if d.Old != nil {
			oldPath = d.Old.Path
		}
		if d.New != nil {
			newPath = d.New.Path
		}
		rec := []string{
			strconv.Itoa(i + 1),               // Rank
			string(d.Kind),                    // Kind
			oldPath,                           // Old Path
			newPath,                           // New Path
			fmtFloat(d.Score),                 // Score
			contract.GetPlainLabel(d.Score),   // Label
			schema.CanonicalFactors(d.Factors), // Factor breakdown
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForReport writes the diff report in JSON format.
func writeJSONResultsForReport(w io.Writer, deltas []schema.Delta, summary schema.ReportSummary) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONDelta struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.Delta
	}

	output := struct {
		Deltas  []JSONDelta          `json:"deltas"`
		Summary schema.ReportSummary `json:"summary"`
	}{
		Deltas:  make([]JSONDelta, len(deltas)),
		Summary: summary,
	}
	for i, d := range deltas {
		output.Deltas[i] = JSONDelta{
			Rank:  i + 1,
			Label: contract.GetPlainLabel(d.Score),
			Delta: d,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
