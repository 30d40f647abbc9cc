package core

import (
	"errors"
	"slices"
	"testing"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a minimal valid config with default weights.
func testConfig() *contract.Config {
	tracked := slices.Clone(schema.DefaultTrackedAttributes)
	return &contract.Config{
		Workers:           1,
		TrackedAttributes: tracked,
		ComputedWeights:   schema.DefaultWeights(tracked),
	}
}

func makeSnapshot(label string, files ...schema.FileRecord) *schema.Snapshot {
	return &schema.Snapshot{Label: label, Files: files}
}

func makeFile(path, fingerprint string, size int64, attrs map[string]string) schema.FileRecord {
	return schema.FileRecord{Path: path, Fingerprint: fingerprint, Size: size, Attributes: attrs}
}

// TestDiffWorkedExample checks kinds, factors, scores and ordering on a
// small inventory pair exercising every stage.
func TestDiffWorkedExample(t *testing.T) {
	cfg := testConfig()
	oldSnap := makeSnapshot("old",
		makeFile("src/a.go", "fp-a1", 100, map[string]string{"license": "mit"}),
		makeFile("docs/guide.md", "fp-g", 50, nil),
		makeFile("go.sum", "fp-s", 10, nil),
		makeFile("legacy.txt", "fp-l", 40, nil),
	)
	newSnap := makeSnapshot("new",
		makeFile("src/a.go", "fp-a2", 110, map[string]string{"license": "apache-2.0"}),
		makeFile("guide.md", "fp-g", 50, nil),
		makeFile("go.sum", "fp-s", 10, nil),
		makeFile("fresh.txt", "fp-f", 30, nil),
	)

	report, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 5)

	byPath := make(map[string]*schema.Delta)
	for i := range report.Deltas {
		byPath[report.Deltas[i].Path()] = &report.Deltas[i]
	}

	modified := byPath["src/a.go"]
	require.NotNil(t, modified)
	assert.Equal(t, schema.ModifiedKind, modified.Kind)
	assert.Equal(t, 10.0, modified.Factor(schema.FactorSizeDelta))
	assert.Equal(t, 1.0, modified.Factor(schema.AttributeFactor("license")))
	assert.InDelta(t, 20.1, modified.Score, 1e-9)

	moved := byPath["guide.md"]
	require.NotNil(t, moved)
	assert.Equal(t, schema.MovedKind, moved.Kind)
	assert.Equal(t, 0.0, moved.Factor(schema.FactorSizeDelta))
	assert.Equal(t, 1.0, moved.Factor(schema.FactorPathDelta))
	assert.InDelta(t, 2.0, moved.Score, 1e-9)

	unmodified := byPath["go.sum"]
	require.NotNil(t, unmodified)
	assert.Equal(t, schema.UnmodifiedKind, unmodified.Kind)
	assert.Zero(t, unmodified.Score)

	assert.Equal(t, schema.RemovedKind, byPath["legacy.txt"].Kind)
	assert.Equal(t, schema.AddedKind, byPath["fresh.txt"].Kind)

	// Highest score first, unmodified last.
	assert.Equal(t, "src/a.go", report.Deltas[0].Path())
	assert.Equal(t, schema.UnmodifiedKind, report.Deltas[4].Kind)

	summary := report.Summary
	assert.Equal(t, 4, summary.TotalOldFiles)
	assert.Equal(t, 4, summary.TotalNewFiles)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Removed)
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, 1, summary.Unmodified)
	assert.Equal(t, int64(0), summary.NetSizeDelta) // +10 modified, -40 removed, +30 added
	assert.InDelta(t, 80.0, summary.PercentChanged, 0.01)
}

// TestDiffSelfIdentity diffs two identical snapshots: everything comes back
// unmodified with zero scores.
func TestDiffSelfIdentity(t *testing.T) {
	cfg := testConfig()
	files := []schema.FileRecord{
		makeFile("a.go", "fp-1", 100, map[string]string{"license": "mit"}),
		makeFile("b/c.go", "fp-2", 200, nil),
		makeFile("b/d.go", "fp-2", 200, nil), // duplicate content is fine
	}
	oldSnap := makeSnapshot("old", slices.Clone(files)...)
	newSnap := makeSnapshot("new", slices.Clone(files)...)

	report, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 3)

	for i := range report.Deltas {
		d := &report.Deltas[i]
		assert.Equal(t, schema.UnmodifiedKind, d.Kind, d.Path())
		assert.Zero(t, d.Score, d.Path())
	}
	assert.Zero(t, report.Summary.PercentChanged)
	assert.Zero(t, report.Summary.NetSizeDelta)
}

// TestDiffSwapSymmetry reverses the snapshot order and checks the mirrored
// summary: added and removed swap, net size delta negates.
func TestDiffSwapSymmetry(t *testing.T) {
	cfg := testConfig()
	oldSnap := makeSnapshot("old",
		makeFile("keep.go", "fp-k", 10, nil),
		makeFile("gone.go", "fp-g", 25, nil),
	)
	newSnap := makeSnapshot("new",
		makeFile("keep.go", "fp-k", 10, nil),
		makeFile("new.go", "fp-n", 40, nil),
	)

	forward, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)
	backward, err := Diff(cfg, newSnap, oldSnap)
	require.NoError(t, err)

	assert.Equal(t, forward.Summary.Added, backward.Summary.Removed)
	assert.Equal(t, forward.Summary.Removed, backward.Summary.Added)
	assert.Equal(t, forward.Summary.Moved, backward.Summary.Moved)
	assert.Equal(t, forward.Summary.Modified, backward.Summary.Modified)
	assert.Equal(t, forward.Summary.NetSizeDelta, -backward.Summary.NetSizeDelta)
}

// TestDiffCompleteness verifies every record of both snapshots lands in
// exactly one delta.
func TestDiffCompleteness(t *testing.T) {
	cfg := testConfig()
	oldSnap := makeSnapshot("old",
		makeFile("a.go", "fp-1", 1, nil),
		makeFile("b.go", "fp-2", 2, nil),
		makeFile("c.go", "fp-3", 3, nil),
		makeFile("dup1.go", "fp-dup", 4, nil),
		makeFile("dup2.go", "fp-dup", 4, nil),
	)
	newSnap := makeSnapshot("new",
		makeFile("a.go", "fp-1", 1, nil),
		makeFile("b.go", "fp-2x", 2, nil),
		makeFile("moved/c.go", "fp-3", 3, nil),
		makeFile("dup3.go", "fp-dup", 4, nil),
		makeFile("extra.go", "fp-9", 9, nil),
	)

	report, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)

	oldSeen := make(map[string]int)
	newSeen := make(map[string]int)
	for i := range report.Deltas {
		d := &report.Deltas[i]
		if d.Old != nil {
			oldSeen[d.Old.Path]++
		}
		if d.New != nil {
			newSeen[d.New.Path]++
		}
	}

	for i := range oldSnap.Files {
		assert.Equal(t, 1, oldSeen[oldSnap.Files[i].Path], "old %s", oldSnap.Files[i].Path)
	}
	for i := range newSnap.Files {
		assert.Equal(t, 1, newSeen[newSnap.Files[i].Path], "new %s", newSnap.Files[i].Path)
	}
}

// TestDiffDeterministicAcrossWorkers runs the same diff serially and with a
// worker pool; the reports must be identical.
func TestDiffDeterministicAcrossWorkers(t *testing.T) {
	var oldFiles, newFiles []schema.FileRecord
	// Many shared-fingerprint buckets so the move matcher actually fans out.
	for _, fp := range []string{"fp-a", "fp-b", "fp-c", "fp-d", "fp-e", "fp-f"} {
		oldFiles = append(oldFiles,
			makeFile("old/"+fp+"/one.txt", fp, 10, nil),
			makeFile("old/"+fp+"/two.txt", fp, 10, nil),
		)
		newFiles = append(newFiles,
			makeFile("new/"+fp+"/one.txt", fp, 10, nil),
			makeFile("new/"+fp+"/two.txt", fp, 10, nil),
			makeFile("new/"+fp+"/three.txt", fp, 10, nil),
		)
	}

	serialCfg := testConfig()
	serialCfg.Workers = 1
	parallelCfg := testConfig()
	parallelCfg.Workers = 8

	serial, err := Diff(serialCfg, makeSnapshot("old", slices.Clone(oldFiles)...), makeSnapshot("new", slices.Clone(newFiles)...))
	require.NoError(t, err)

	for range 5 {
		parallel, err := Diff(parallelCfg, makeSnapshot("old", slices.Clone(oldFiles)...), makeSnapshot("new", slices.Clone(newFiles)...))
		require.NoError(t, err)
		require.Len(t, parallel.Deltas, len(serial.Deltas))
		for i := range serial.Deltas {
			assert.Equal(t, serial.Deltas[i].Kind, parallel.Deltas[i].Kind, "delta %d", i)
			assert.Equal(t, serial.Deltas[i].Path(), parallel.Deltas[i].Path(), "delta %d", i)
			assert.Equal(t, serial.Deltas[i].Score, parallel.Deltas[i].Score, "delta %d", i)
		}
		assert.Equal(t, serial.Summary, parallel.Summary)
	}
}

// TestDiffDuplicatePath surfaces the typed error for colliding paths.
func TestDiffDuplicatePath(t *testing.T) {
	cfg := testConfig()
	oldSnap := makeSnapshot("old",
		makeFile("a.go", "fp-1", 1, nil),
		makeFile("a.go", "fp-2", 2, nil),
	)
	newSnap := makeSnapshot("new", makeFile("a.go", "fp-1", 1, nil))

	_, err := Diff(cfg, oldSnap, newSnap)
	require.Error(t, err)
	var dupErr *schema.DuplicatePathError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "a.go", dupErr.Path)
	assert.Equal(t, "old", dupErr.Snapshot)
}

// TestDiffAligned strips differing root prefixes so relocated trees still
// match file by file.
func TestDiffAligned(t *testing.T) {
	cfg := testConfig()
	cfg.Align = true
	oldSnap := makeSnapshot("old",
		makeFile("project-1.0/src/main.go", "fp-m", 100, nil),
		makeFile("project-1.0/README.md", "fp-r", 20, nil),
	)
	newSnap := makeSnapshot("new",
		makeFile("project-1.1/src/main.go", "fp-m", 100, nil),
		makeFile("project-1.1/README.md", "fp-r2", 25, nil),
	)

	report, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 2)

	assert.Equal(t, 1, report.Summary.Unmodified)
	assert.Equal(t, 1, report.Summary.Modified)
	assert.Zero(t, report.Summary.Moved)
}

// TestDiffAlignmentFallback keeps the original paths when the trees share
// no anchor file.
func TestDiffAlignmentFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Align = true
	oldSnap := makeSnapshot("old", makeFile("v1/a.go", "fp-1", 10, nil))
	newSnap := makeSnapshot("new", makeFile("v2/b.go", "fp-2", 20, nil))

	report, err := Diff(cfg, oldSnap, newSnap)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Removed)
	assert.Equal(t, 1, report.Summary.Added)
}

// TestBuildSummaryEmpty covers the zero-delta edge.
func TestBuildSummaryEmpty(t *testing.T) {
	summary := buildSummary(0, 0, nil)
	assert.Zero(t, summary.PercentChanged)
	assert.Zero(t, summary.NetSizeDelta)
	for _, kind := range schema.AllDeltaKinds {
		assert.Zero(t, summary.Count(kind))
	}
}

// TestDiffMalformedRecord surfaces the typed error with the failing field.
func TestDiffMalformedRecord(t *testing.T) {
	cfg := testConfig()
	oldSnap := makeSnapshot("old", schema.FileRecord{Path: "a.go"})
	newSnap := makeSnapshot("new")

	_, err := Diff(cfg, oldSnap, newSnap)
	require.Error(t, err)
	var malErr *schema.MalformedRecordError
	require.True(t, errors.As(err, &malErr))
	assert.Equal(t, "fingerprint", malErr.Field)
}
