package core

import (
	"sort"

	"github.com/scanwork/deltascan/schema"
)

// rankDeltas sorts deltas into the report's total order using one combined
// comparator: score descending, canonical factors ascending, path ascending,
// and finally kind. Sequential single-key sorts would let earlier keys
// scramble, so all keys are compared in one pass.
func rankDeltas(deltas []schema.Delta) {
	sort.Slice(deltas, func(i, j int) bool {
		a := &deltas[i]
		b := &deltas[j]

		// Primary: score (descending)
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		// Secondary: canonical factors serialization (ascending)
		ca := schema.CanonicalFactors(a.Factors)
		cb := schema.CanonicalFactors(b.Factors)
		if ca != cb {
			return ca < cb
		}

		// Tertiary: path (ascending)
		if a.Path() != b.Path() {
			return a.Path() < b.Path()
		}

		// A moved delta can land on the same path as a removed one; kind
		// resolves the last possible tie.
		return a.Kind < b.Kind
	})
}
