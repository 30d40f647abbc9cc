package runstore

import (
	"errors"
	"fmt"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/internal/parquet"
)

// ExecuteRunExport exports the recorded runs and deltas to Parquet files.
func ExecuteRunExport(store contract.RunStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total deltas: %d\n", status.TotalDeltas)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	deltas, err := store.GetAllDeltas()
	if err != nil {
		return fmt.Errorf("failed to retrieve deltas: %w", err)
	}

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunRowsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runRows), runsFile)

	// Write deltas to Parquet
	deltasFile := outputFile + ".deltas.parquet"
	deltaRows := parquet.ConvertDeltaRecords(deltas)
	if err := parquet.WriteDeltaRowsParquet(deltaRows, deltasFile); err != nil {
		return fmt.Errorf("failed to write deltas: %w", err)
	}
	fmt.Printf("Exported %d delta rows to: %s\n", len(deltaRows), deltasFile)

	return nil
}
