// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/scanwork/deltascan/schema"
)

// InventoryLoader supplies file inventories to the diff engine.
// This allows the core logic to be tested without touching the filesystem.
type InventoryLoader interface {
	// Load reads the inventory at location and returns it as a Snapshot
	// carrying the given label. Loading fails on duplicate paths or records
	// missing required fields.
	Load(ctx context.Context, location string, label string) (*schema.Snapshot, error)
}

// RunStore defines the interface for recording diff runs and their deltas.
// This allows the persistence layer to be mocked for testing.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startTime time.Time, oldLabel, newLabel string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data and summary counts.
	EndRun(runID int64, endTime time.Time, summary schema.ReportSummary) error

	// RecordDeltas stores the delta rows belonging to a run.
	RecordDeltas(runID int64, deltas []schema.DeltaRecord) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllDeltas returns every stored delta row, by run then score descending.
	GetAllDeltas() ([]schema.DeltaRecord, error)

	// Clear removes all recorded runs and deltas.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
