package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanwork/deltascan/schema"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Now().UTC().Truncate(time.Millisecond)

	runID, err := store.BeginRun(start, "v1.json", "v2.json", map[string]any{"workers": 4})
	require.NoError(t, err)
	require.Greater(t, runID, int64(0))

	deltas := []schema.DeltaRecord{
		{RunID: runID, Kind: "modified", OldPath: "a.txt", NewPath: "a.txt", Factors: "size_delta=10", Score: 20.1},
		{RunID: runID, Kind: "moved", OldPath: "docs/b.txt", NewPath: "b.txt", Factors: "path_delta=1;size_delta=0", Score: 2},
	}
	require.NoError(t, store.RecordDeltas(runID, deltas))

	summary := schema.ReportSummary{
		TotalOldFiles: 3, TotalNewFiles: 3,
		Modified: 1, Moved: 1, Unmodified: 1,
		NetSizeDelta: 10, PercentChanged: 66.67,
	}
	require.NoError(t, store.EndRun(runID, start.Add(time.Second), summary))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(2), status.TotalDeltas)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "v1.json", runs[0].OldLabel)
	assert.Equal(t, "v2.json", runs[0].NewLabel)
	assert.Equal(t, 1, runs[0].Modified)
	assert.Equal(t, int64(10), runs[0].NetSizeDelta)
	assert.Contains(t, runs[0].ConfigParams, `"workers":4`)
	assert.WithinDuration(t, start, runs[0].StartTime, time.Millisecond)

	stored, err := store.GetAllDeltas()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "modified", stored[0].Kind, "highest score first within a run")
	assert.Equal(t, "path_delta=1;size_delta=0", stored[1].Factors)
}

func TestRunStoreMultipleRuns(t *testing.T) {
	store := newSQLiteStore(t)
	now := time.Now().UTC()

	first, err := store.BeginRun(now, "old", "new", nil)
	require.NoError(t, err)
	second, err := store.BeginRun(now.Add(time.Minute), "old", "new", nil)
	require.NoError(t, err)
	assert.Greater(t, second, first, "run IDs are monotonic")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
}

func TestRunStoreClear(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now().UTC(), "old", "new", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordDeltas(runID, []schema.DeltaRecord{
		{RunID: runID, Kind: "added", NewPath: "x.txt", Factors: "size_delta=5", Score: 0.05},
	}))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalRuns)
	assert.Equal(t, int64(0), status.TotalDeltas)
}

func TestRunStoreRecordDeltasEmpty(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(time.Now().UTC(), "old", "new", nil)
	require.NoError(t, err)
	assert.NoError(t, store.RecordDeltas(runID, nil))
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "old", "new", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	require.NoError(t, store.RecordDeltas(0, []schema.DeltaRecord{{Kind: "added"}}))
	require.NoError(t, store.EndRun(0, time.Now(), schema.ReportSummary{}))
	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)
}

func TestRunStoreUnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`deltascan_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"deltascan_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"deltascan_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sqliteVal := formatTime(ts, schema.SQLiteBackend)
	assert.Equal(t, "2026-03-01T12:00:00Z", sqliteVal)

	nativeVal := formatTime(ts, schema.PostgreSQLBackend)
	assert.Equal(t, ts, nativeVal)
}

func TestMigrateRunStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	// Up to latest, then all the way back down
	require.NoError(t, MigrateRunStore(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateRunStore(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrateRunStoreNoneBackend(t *testing.T) {
	err := MigrateRunStore(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "not supported")
}
