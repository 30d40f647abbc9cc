package cmd

import (
	"github.com/scanwork/deltascan/core"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/spf13/cobra"
)

// diffCmd compares two scan inventories.
var diffCmd = &cobra.Command{
	Use:   "diff <old-inventory> <new-inventory>",
	Short: "Diff two scan inventories and rank the deltas by score.",
	Long: `Compare two file inventories and classify every file as added, removed,
moved, modified or unmodified.

Matching runs in stages from strongest to weakest evidence, so a file that
kept its content but changed location is reported as moved rather than as a
remove plus an add. Each changed file gets a score built from weighted
factors, and results are ranked from highest to lowest score.

Examples:
  # Diff two scan outputs
  deltascan diff before.json after.json

  # Show factor values per delta
  deltascan diff before.json after.json --detail

  # Include unmodified files and raise the display limit
  deltascan diff before.json after.json --all --limit 100

  # Track extra attributes beyond license and copyright
  deltascan diff before.json after.json --attributes license,copyright,language

  # Export findings to CSV for tracking
  deltascan diff before.json after.json --output csv --output-file deltas.csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDiff(rootCtx, cfg, runStore); err != nil {
			contract.LogFatal("Cannot run diff", err)
		}
	},
}
