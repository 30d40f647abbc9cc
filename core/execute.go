package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/internal/inventory"
	"github.com/scanwork/deltascan/internal/outwriter"
	"github.com/scanwork/deltascan/schema"
)

// ExecutorFunc defines the function signature for executing the CLI modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.RunStore) error

// ExecuteDiff loads both inventories, diffs them, records the run and prints
// the report. It serves as the main entry point for the 'diff' mode.
func ExecuteDiff(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	loader := inventory.NewLoader()
	report, err := DiffInventories(ctx, cfg, loader, store)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	ow := outwriter.NewOutWriter()
	return ow.WriteReport(report, cfg, duration)
}

// ExecuteMetrics displays the effective factor weights and severity bands.
// This is a static display that does not require inventory loading.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.RunStore) error {
	ow := outwriter.NewOutWriter()
	return ow.WriteMetrics(cfg.ComputedWeights, cfg)
}

// DiffInventories runs diff end to end without printing: load, diff, record.
// It is shared by the CLI executor and the MCP tool handlers. Run recording
// is best-effort; a store failure is logged and does not fail the diff.
func DiffInventories(ctx context.Context, cfg *contract.Config, loader contract.InventoryLoader, store contract.RunStore) (*schema.Report, error) {
	startTime := time.Now().UTC()

	oldSnap, err := loader.Load(ctx, cfg.OldInventory, "old")
	if err != nil {
		return nil, fmt.Errorf("load old inventory: %w", err)
	}
	newSnap, err := loader.Load(ctx, cfg.NewInventory, "new")
	if err != nil {
		return nil, fmt.Errorf("load new inventory: %w", err)
	}

	report, err := Diff(cfg, oldSnap, newSnap)
	if err != nil {
		return nil, err
	}

	recordRun(cfg, store, startTime, oldSnap.Label, newSnap.Label, report)
	return report, nil
}

// recordRun persists the run and its deltas when a store is configured.
func recordRun(cfg *contract.Config, store contract.RunStore, startTime time.Time, oldLabel, newLabel string, report *schema.Report) {
	if store == nil {
		return
	}
	runID, err := store.BeginRun(startTime, oldLabel, newLabel, runConfigParams(cfg))
	if err != nil {
		contract.LogWarn("Run history unavailable", err)
		return
	}
	if err := store.RecordDeltas(runID, DeltaRecords(runID, report)); err != nil {
		contract.LogWarn("Failed to record deltas", err)
	}
	if err := store.EndRun(runID, time.Now().UTC(), report.Summary); err != nil {
		contract.LogWarn("Failed to finalize run", err)
	}
}

// runConfigParams captures the configuration that shaped a run's results.
func runConfigParams(cfg *contract.Config) map[string]any {
	weights := make(map[string]float64, len(cfg.ComputedWeights))
	for key, w := range cfg.ComputedWeights {
		weights[string(key)] = w
	}
	return map[string]any{
		"workers":    cfg.Workers,
		"align":      cfg.Align,
		"attributes": strings.Join(cfg.TrackedAttributes, ","),
		"weights":    weights,
	}
}

// DeltaRecords flattens a report into storable delta rows for the given run.
func DeltaRecords(runID int64, report *schema.Report) []schema.DeltaRecord {
	rows := make([]schema.DeltaRecord, 0, len(report.Deltas))
	for i := range report.Deltas {
		d := &report.Deltas[i]
		row := schema.DeltaRecord{
			RunID:   runID,
			Kind:    string(d.Kind),
			Factors: schema.CanonicalFactors(d.Factors),
			Score:   d.Score,
		}
		if d.Old != nil {
			row.OldPath = d.Old.Path
		}
		if d.New != nil {
			row.NewPath = d.New.Path
		}
		rows = append(rows, row)
	}
	return rows
}
