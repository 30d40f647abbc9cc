package core

import (
	"math"
	"testing"

	"github.com/scanwork/deltascan/schema"
)

// FuzzComputeScore fuzzes computeScore with arbitrary factor values and
// checks its invariants: non-negative output for non-negative inputs, and
// equal inputs producing equal scores.
func FuzzComputeScore(f *testing.F) {
	seeds := []struct {
		sizeDelta float64
		pathDelta float64
		license   float64
		copyright float64
	}{
		{0, 0, 0, 0},
		{10, 0, 1, 0},
		{0, 3, 0, 1},
		{1 << 30, 12, 1, 1},
		{0.1, 0.2, 0.3, 0.7},
		{1e-9, 0.30000000000000004, 1, 1},
	}
	for _, seed := range seeds {
		f.Add(seed.sizeDelta, seed.pathDelta, seed.license, seed.copyright)
	}

	weights := schema.DefaultWeights(schema.DefaultTrackedAttributes)

	f.Fuzz(func(t *testing.T, sizeDelta, pathDelta, license, copyright float64) {
		for _, v := range []float64{sizeDelta, pathDelta, license, copyright} {
			if v < 0 || math.IsNaN(v) {
				t.Skip("classifier never emits negative or NaN factors")
			}
		}

		d := schema.Delta{Factors: map[schema.FactorKey]float64{
			schema.FactorSizeDelta:              sizeDelta,
			schema.FactorPathDelta:              pathDelta,
			schema.AttributeFactor("license"):   license,
			schema.AttributeFactor("copyright"): copyright,
		}}

		// Fractional factor sums are sensitive to addition order, so one
		// repeat is not enough to surface an order-dependent accumulator.
		first := computeScore(&d, weights)
		for i := 0; i < 100; i++ {
			if again := computeScore(&d, weights); again != first {
				t.Errorf("score not deterministic: %v vs %v", first, again)
			}
		}
		if first < 0 {
			t.Errorf("score went negative: %v for factors %v", first, d.Factors)
		}
	})
}
