package core

import (
	"github.com/scanwork/deltascan/core/algo"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// classifyPair turns one matched pair into a Delta with its factor values.
//
// Factors:
//   - size_delta: |new.size - old.size| with both sides present, otherwise
//     the full size of whichever side exists;
//   - path_delta: segment edit distance between the two paths, nonzero only
//     for moved deltas;
//   - <attr>_changed: 1 when the tracked attribute differs between sides or
//     is present on only one of them, else 0.
//
// Unmodified deltas keep every factor at zero so the report stays complete
// without contributing score.
func classifyPair(p matchedPair, tracked []string) schema.Delta {
	delta := schema.Delta{
		Kind:    p.kind,
		Old:     p.oldRec,
		New:     p.newRec,
		Factors: make(map[schema.FactorKey]float64, len(tracked)+2),
	}

	// Factor keys are always present, even at zero, so equal deltas
	// serialize identically and completeness checks stay trivial.
	delta.Factors[schema.FactorSizeDelta] = 0
	delta.Factors[schema.FactorPathDelta] = 0
	for _, name := range tracked {
		delta.Factors[schema.AttributeFactor(name)] = 0
	}

	if p.kind == schema.UnmodifiedKind {
		return delta
	}

	delta.Factors[schema.FactorSizeDelta] = sizeDelta(p.oldRec, p.newRec)
	if p.kind == schema.MovedKind {
		delta.Factors[schema.FactorPathDelta] = float64(algo.PathDistance(p.oldRec.Path, p.newRec.Path))
	}
	for _, name := range tracked {
		if attributeChanged(p.oldRec, p.newRec, name) {
			delta.Factors[schema.AttributeFactor(name)] = 1
		}
	}

	return delta
}

// classifyPairs maps the matcher's output to deltas and scores each one.
func classifyPairs(cfg *contract.Config, pairs []matchedPair) []schema.Delta {
	deltas := make([]schema.Delta, 0, len(pairs))
	for _, p := range pairs {
		delta := classifyPair(p, cfg.TrackedAttributes)
		delta.Score = computeScore(&delta, cfg.ComputedWeights)
		deltas = append(deltas, delta)
	}
	return deltas
}

// sizeDelta returns the absolute size difference, or the full size when only
// one side exists (added/removed).
func sizeDelta(oldRec, newRec *schema.FileRecord) float64 {
	switch {
	case oldRec != nil && newRec != nil:
		d := newRec.Size - oldRec.Size
		if d < 0 {
			d = -d
		}
		return float64(d)
	case newRec != nil:
		return float64(newRec.Size)
	default:
		return float64(oldRec.Size)
	}
}

// attributeChanged reports whether the named attribute differs between the
// two sides. A value present on only one side counts as changed.
func attributeChanged(oldRec, newRec *schema.FileRecord, name string) bool {
	var oldVal, newVal string
	var oldOk, newOk bool
	if oldRec != nil {
		oldVal, oldOk = oldRec.Attr(name)
	}
	if newRec != nil {
		newVal, newOk = newRec.Attr(name)
	}
	if oldOk != newOk {
		return true
	}
	return oldOk && oldVal != newVal
}
