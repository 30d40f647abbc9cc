package core

import (
	"testing"

	"github.com/scanwork/deltascan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyPair checks factor values per delta kind.
func TestClassifyPair(t *testing.T) {
	tracked := []string{"license", "copyright"}

	oldMod := makeFile("a.go", "fp-1", 100, map[string]string{"license": "mit"})
	newMod := makeFile("a.go", "fp-2", 90, map[string]string{"license": "apache-2.0"})
	oldMove := makeFile("docs/guide.md", "fp-g", 50, nil)
	newMove := makeFile("guide.md", "fp-g", 50, nil)
	added := makeFile("fresh.go", "fp-f", 30, nil)
	removed := makeFile("gone.go", "fp-x", 70, nil)
	same := makeFile("go.sum", "fp-s", 10, nil)

	tests := []struct {
		name    string
		pair    matchedPair
		factors map[schema.FactorKey]float64
	}{
		{
			name: "modified with license change",
			pair: matchedPair{oldRec: &oldMod, newRec: &newMod, kind: schema.ModifiedKind},
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:              10,
				schema.FactorPathDelta:              0,
				schema.AttributeFactor("license"):   1,
				schema.AttributeFactor("copyright"): 0,
			},
		},
		{
			name: "moved",
			pair: matchedPair{oldRec: &oldMove, newRec: &newMove, kind: schema.MovedKind},
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:              0,
				schema.FactorPathDelta:              1,
				schema.AttributeFactor("license"):   0,
				schema.AttributeFactor("copyright"): 0,
			},
		},
		{
			name: "added counts full size",
			pair: matchedPair{newRec: &added, kind: schema.AddedKind},
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:              30,
				schema.FactorPathDelta:              0,
				schema.AttributeFactor("license"):   0,
				schema.AttributeFactor("copyright"): 0,
			},
		},
		{
			name: "removed counts full size",
			pair: matchedPair{oldRec: &removed, kind: schema.RemovedKind},
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:              70,
				schema.FactorPathDelta:              0,
				schema.AttributeFactor("license"):   0,
				schema.AttributeFactor("copyright"): 0,
			},
		},
		{
			name: "unmodified stays all zero",
			pair: matchedPair{oldRec: &same, newRec: &same, kind: schema.UnmodifiedKind},
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:              0,
				schema.FactorPathDelta:              0,
				schema.AttributeFactor("license"):   0,
				schema.AttributeFactor("copyright"): 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := classifyPair(tt.pair, tracked)
			assert.Equal(t, tt.pair.kind, delta.Kind)
			assert.Equal(t, tt.factors, delta.Factors)
		})
	}
}

// TestClassifyPairsScores attaches the weighted score to each delta.
func TestClassifyPairsScores(t *testing.T) {
	cfg := testConfig()
	oldRec := makeFile("a.go", "fp-1", 100, map[string]string{"license": "mit"})
	newRec := makeFile("a.go", "fp-2", 110, map[string]string{"license": "gpl-3.0"})

	deltas := classifyPairs(cfg, []matchedPair{
		{oldRec: &oldRec, newRec: &newRec, kind: schema.ModifiedKind},
	})
	require.Len(t, deltas, 1)
	assert.InDelta(t, 20.1, deltas[0].Score, 1e-9)
}

// TestSizeDelta covers both-sides, one-side and negative-direction cases.
func TestSizeDelta(t *testing.T) {
	small := makeFile("a.go", "fp", 40, nil)
	big := makeFile("a.go", "fp", 100, nil)

	assert.Equal(t, 60.0, sizeDelta(&small, &big))
	assert.Equal(t, 60.0, sizeDelta(&big, &small))
	assert.Equal(t, 40.0, sizeDelta(&small, nil))
	assert.Equal(t, 100.0, sizeDelta(nil, &big))
}

// TestAttributeChanged treats a one-sided value as a change.
func TestAttributeChanged(t *testing.T) {
	withMIT := makeFile("a.go", "fp", 1, map[string]string{"license": "mit"})
	withGPL := makeFile("a.go", "fp", 1, map[string]string{"license": "gpl-3.0"})
	without := makeFile("a.go", "fp", 1, nil)

	assert.False(t, attributeChanged(&withMIT, &withMIT, "license"))
	assert.True(t, attributeChanged(&withMIT, &withGPL, "license"))
	assert.True(t, attributeChanged(&withMIT, &without, "license"))
	assert.True(t, attributeChanged(&without, &withMIT, "license"))
	assert.False(t, attributeChanged(&without, &without, "license"))
	assert.False(t, attributeChanged(&withMIT, &withGPL, "copyright"))
}
