package cmd

import (
	"github.com/scanwork/deltascan/core"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of delta scoring.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring formula and factor weights",
	Long: `Show the formal definition of delta scoring.

Provides complete transparency into how deltas are ranked, including:
- Factor names and their contribution weights
- Mathematical formula for score calculation
- Severity label thresholds
- Custom weights if configured via .deltascan.yaml

No inventories are loaded - this is purely informational.

Use this to:
- Understand what drives a delta's score
- Explain scoring logic to your team
- Validate custom weight configurations
- Document scoring methodology

Examples:
  # Show default scoring formula
  deltascan metrics

  # View with custom weights from config file
  deltascan metrics --config .deltascan.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, runStore); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
