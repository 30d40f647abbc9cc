package core

import (
	"testing"

	"github.com/scanwork/deltascan/schema"
	"github.com/stretchr/testify/assert"
)

// TestComputeScore checks the weighted-sum contract.
func TestComputeScore(t *testing.T) {
	weights := schema.DefaultWeights(schema.DefaultTrackedAttributes)

	tests := []struct {
		name     string
		factors  map[schema.FactorKey]float64
		expected float64
	}{
		{
			name:     "no factors",
			factors:  map[schema.FactorKey]float64{},
			expected: 0,
		},
		{
			name: "all zero factors",
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:            0,
				schema.AttributeFactor("license"): 0,
			},
			expected: 0,
		},
		{
			name: "license change dominates",
			factors: map[schema.FactorKey]float64{
				schema.FactorSizeDelta:            10,
				schema.AttributeFactor("license"): 1,
			},
			expected: 20.1,
		},
		{
			name: "copyright and move",
			factors: map[schema.FactorKey]float64{
				schema.FactorPathDelta:              2,
				schema.AttributeFactor("copyright"): 1,
			},
			expected: 14,
		},
		{
			name: "unknown factor has no weight",
			factors: map[schema.FactorKey]float64{
				schema.FactorKey("mystery"): 100,
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := schema.Delta{Factors: tt.factors}
			assert.InDelta(t, tt.expected, computeScore(&d, weights), 1e-9)
		})
	}
}

// TestComputeScoreCustomWeights honors per-run overrides, including zero.
func TestComputeScoreCustomWeights(t *testing.T) {
	weights := map[schema.FactorKey]float64{
		schema.FactorSizeDelta:            0,
		schema.AttributeFactor("license"): 50,
	}
	d := schema.Delta{Factors: map[schema.FactorKey]float64{
		schema.FactorSizeDelta:            1000,
		schema.AttributeFactor("license"): 1,
	}}

	assert.Equal(t, 50.0, computeScore(&d, weights))
}

// TestComputeScoreOrderIndependent sums factors whose fractional
// contributions round differently depending on addition order (0.1+0.2+0.3
// vs 0.3+0.2+0.1 differ in the last ULP) and checks that repeated calls on
// the same delta always land on the same bits.
func TestComputeScoreOrderIndependent(t *testing.T) {
	weights := map[schema.FactorKey]float64{
		schema.AttributeFactor("author"):  1,
		schema.AttributeFactor("holder"):  1,
		schema.AttributeFactor("license"): 1,
	}
	d := schema.Delta{Factors: map[schema.FactorKey]float64{
		schema.AttributeFactor("author"):  0.1,
		schema.AttributeFactor("holder"):  0.2,
		schema.AttributeFactor("license"): 0.3,
	}}

	first := computeScore(&d, weights)
	for i := 0; i < 10000; i++ {
		if again := computeScore(&d, weights); again != first {
			t.Fatalf("score drifted on call %d: %v vs %v", i, again, first)
		}
	}
}
