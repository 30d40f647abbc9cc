// Package core has core logic for matching, classifying, scoring and ranking
// file-inventory deltas.
package core

import (
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// Diff compares two snapshots and produces the deterministically ordered
// delta report. The snapshots must outlive the report, which borrows their
// records. Diff is safe to invoke concurrently on disjoint snapshot pairs.
func Diff(cfg *contract.Config, oldSnap, newSnap *schema.Snapshot) (*schema.Report, error) {
	oldIdx, newIdx, err := buildIndexes(cfg, oldSnap, newSnap)
	if err != nil {
		return nil, err
	}

	pairs := matchSnapshots(cfg, oldIdx, newIdx)
	deltas := classifyPairs(cfg, pairs)
	rankDeltas(deltas)

	return &schema.Report{
		Deltas:  deltas,
		Summary: buildSummary(oldIdx.Len(), newIdx.Len(), deltas),
	}, nil
}

// buildIndexes validates both snapshots and constructs their lookup indexes,
// aligning the trees first when configured. Alignment is best-effort: when no
// anchor exists, or stripping segments collapses two paths into one, the
// original paths are used instead.
func buildIndexes(cfg *contract.Config, oldSnap, newSnap *schema.Snapshot) (*Index, *Index, error) {
	if cfg.Align {
		alignedOld, alignedNew, err := alignSnapshots(oldSnap, newSnap)
		switch {
		case err != nil:
			contract.LogWarn("Tree alignment skipped", err)
		case alignedOld != oldSnap || alignedNew != newSnap:
			oldIdx, oldErr := BuildIndex(alignedOld)
			newIdx, newErr := BuildIndex(alignedNew)
			if oldErr == nil && newErr == nil {
				return oldIdx, newIdx, nil
			}
			revertErr := oldErr
			if revertErr == nil {
				revertErr = newErr
			}
			contract.LogWarn("Tree alignment reverted", revertErr)
		}
	}

	oldIdx, err := BuildIndex(oldSnap)
	if err != nil {
		return nil, nil, err
	}
	newIdx, err := BuildIndex(newSnap)
	if err != nil {
		return nil, nil, err
	}
	return oldIdx, newIdx, nil
}

// buildSummary aggregates per-kind counts and net size movement.
func buildSummary(totalOld, totalNew int, deltas []schema.Delta) schema.ReportSummary {
	summary := schema.ReportSummary{
		TotalOldFiles: totalOld,
		TotalNewFiles: totalNew,
	}

	for i := range deltas {
		d := &deltas[i]
		switch d.Kind {
		case schema.AddedKind:
			summary.Added++
		case schema.RemovedKind:
			summary.Removed++
		case schema.ModifiedKind:
			summary.Modified++
		case schema.MovedKind:
			summary.Moved++
		case schema.UnmodifiedKind:
			summary.Unmodified++
		}
		if d.Old != nil {
			summary.NetSizeDelta -= d.Old.Size
		}
		if d.New != nil {
			summary.NetSizeDelta += d.New.Size
		}
	}

	summary.PercentChanged = schema.CalculatePercent(len(deltas)-summary.Unmodified, len(deltas))
	return summary
}
