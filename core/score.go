package core

import (
	"sort"

	"github.com/scanwork/deltascan/schema"
)

// computeScore calculates a delta's score as the weighted sum of its factors.
// The weight table is pure configuration: a factor with no weight contributes
// nothing, and a weight whose factor never occurs (for example an attribute
// that is not tracked) is a no-op rather than an error.
//
// Factors are summed in sorted key order. Float addition is not associative,
// so summing in map iteration order could flip the last ULP between runs and
// break the equal-inputs-equal-scores guarantee the ranker relies on.
func computeScore(d *schema.Delta, weights map[schema.FactorKey]float64) float64 {
	keys := make([]string, 0, len(d.Factors))
	for key := range d.Factors {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	var score float64
	for _, key := range keys {
		value := d.Factors[schema.FactorKey(key)]
		if value == 0 {
			continue
		}
		score += weights[schema.FactorKey(key)] * value
	}
	return score
}
