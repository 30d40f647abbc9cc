package core

import (
	"testing"

	"github.com/scanwork/deltascan/schema"
	"github.com/stretchr/testify/assert"
)

// TestRankDeltas checks the combined comparator key by key.
func TestRankDeltas(t *testing.T) {
	recA := makeFile("a.go", "fp-a", 1, nil)
	recB := makeFile("b.go", "fp-b", 1, nil)
	recC := makeFile("c.go", "fp-c", 1, nil)

	deltas := []schema.Delta{
		{Kind: schema.ModifiedKind, New: &recC, Score: 5,
			Factors: map[schema.FactorKey]float64{schema.FactorSizeDelta: 500}},
		{Kind: schema.ModifiedKind, New: &recB, Score: 10,
			Factors: map[schema.FactorKey]float64{schema.FactorSizeDelta: 1000}},
		{Kind: schema.ModifiedKind, New: &recA, Score: 5,
			Factors: map[schema.FactorKey]float64{schema.FactorSizeDelta: 500}},
		{Kind: schema.MovedKind, Old: &recB, New: &recA, Score: 5,
			Factors: map[schema.FactorKey]float64{schema.FactorPathDelta: 1}},
	}

	rankDeltas(deltas)

	// Highest score first.
	assert.Equal(t, 10.0, deltas[0].Score)

	// Equal scores order by canonical factors ascending: "path_delta=1"
	// sorts before "size_delta=500".
	assert.Equal(t, schema.MovedKind, deltas[1].Kind)

	// Remaining tie resolves by path ascending.
	assert.Equal(t, "a.go", deltas[2].Path())
	assert.Equal(t, "c.go", deltas[3].Path())
}

// TestRankDeltasKindTieBreak keeps the order total when a moved delta lands
// on the same path as another delta with identical score and factors.
func TestRankDeltasKindTieBreak(t *testing.T) {
	rec := makeFile("a.go", "fp", 1, nil)
	other := makeFile("old/a.go", "fp", 1, nil)

	deltas := []schema.Delta{
		{Kind: schema.MovedKind, Old: &other, New: &rec, Score: 0, Factors: map[schema.FactorKey]float64{}},
		{Kind: schema.AddedKind, New: &rec, Score: 0, Factors: map[schema.FactorKey]float64{}},
	}
	rankDeltas(deltas)

	assert.Equal(t, schema.AddedKind, deltas[0].Kind)
	assert.Equal(t, schema.MovedKind, deltas[1].Kind)
}

// TestRankDeltasStableAcrossRuns repeats ranking on the same shuffled input;
// the output order never varies.
func TestRankDeltasStableAcrossRuns(t *testing.T) {
	recs := []schema.FileRecord{
		makeFile("one.go", "fp-1", 1, nil),
		makeFile("two.go", "fp-2", 1, nil),
		makeFile("three.go", "fp-3", 1, nil),
	}
	build := func(order []int) []schema.Delta {
		var out []schema.Delta
		for _, i := range order {
			out = append(out, schema.Delta{
				Kind: schema.AddedKind, New: &recs[i], Score: 1,
				Factors: map[schema.FactorKey]float64{schema.FactorSizeDelta: 1},
			})
		}
		return out
	}

	first := build([]int{0, 1, 2})
	second := build([]int{2, 0, 1})
	rankDeltas(first)
	rankDeltas(second)

	for i := range first {
		assert.Equal(t, first[i].Path(), second[i].Path(), "position %d", i)
	}
}
