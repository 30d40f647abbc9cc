package core

import (
	"sort"
	"sync"

	"github.com/scanwork/deltascan/core/algo"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// matchedPair couples at most one record from each snapshot with the delta
// kind the pairing implies. Exactly one side is nil for added/removed.
type matchedPair struct {
	oldRec *schema.FileRecord
	newRec *schema.FileRecord
	kind   schema.DeltaKind
}

// matchSnapshots pairs every record of both indexes exactly once, in priority
// order: exact identity, then content match (moved), then path match
// (modified), then leftovers (removed/added). The output is deterministic for
// a given pair of snapshots regardless of cfg.Workers.
func matchSnapshots(cfg *contract.Config, oldIdx, newIdx *Index) []matchedPair {
	pairs := make([]matchedPair, 0, oldIdx.Len()+newIdx.Len())
	oldDone := make(map[*schema.FileRecord]bool, oldIdx.Len())
	newDone := make(map[*schema.FileRecord]bool, newIdx.Len())

	// --- Stage 1: exact identity (same path AND same fingerprint) ---
	for _, oldRec := range oldIdx.Records() {
		newRec := newIdx.ByPath(oldRec.Path)
		if newRec != nil && newRec.Fingerprint == oldRec.Fingerprint {
			pairs = append(pairs, matchedPair{oldRec: oldRec, newRec: newRec, kind: schema.UnmodifiedKind})
			oldDone[oldRec] = true
			newDone[newRec] = true
		}
	}

	// --- Stage 2: content match across different paths (moved) ---
	pairs = append(pairs, matchMoved(cfg, oldIdx, newIdx, oldDone, newDone)...)

	// --- Stage 3: path match with differing content (modified) ---
	for _, oldRec := range oldIdx.Records() {
		if oldDone[oldRec] {
			continue
		}
		newRec := newIdx.ByPath(oldRec.Path)
		if newRec != nil && !newDone[newRec] {
			pairs = append(pairs, matchedPair{oldRec: oldRec, newRec: newRec, kind: schema.ModifiedKind})
			oldDone[oldRec] = true
			newDone[newRec] = true
		}
	}

	// --- Stage 4: leftovers are removed (old) and added (new) ---
	for _, oldRec := range oldIdx.Records() {
		if !oldDone[oldRec] {
			pairs = append(pairs, matchedPair{oldRec: oldRec, kind: schema.RemovedKind})
		}
	}
	for _, newRec := range newIdx.Records() {
		if !newDone[newRec] {
			pairs = append(pairs, matchedPair{newRec: newRec, kind: schema.AddedKind})
		}
	}

	return pairs
}

// matchMoved pairs unmatched records sharing a fingerprint across snapshots.
// Buckets are independent, so the pairing work is fanned out across
// cfg.Workers goroutines; results are merged back in fingerprint order, which
// keeps the output identical to a serial run.
func matchMoved(cfg *contract.Config, oldIdx, newIdx *Index, oldDone, newDone map[*schema.FileRecord]bool) []matchedPair {
	// Collect fingerprints with unmatched records on both sides, sorted.
	var shared []string
	buckets := make(map[string][2][]*schema.FileRecord)
	for _, fp := range oldIdx.Fingerprints() {
		olds := unmatched(oldIdx.Bucket(fp), oldDone)
		news := unmatched(newIdx.Bucket(fp), newDone)
		if len(olds) > 0 && len(news) > 0 {
			shared = append(shared, fp)
			buckets[fp] = [2][]*schema.FileRecord{olds, news}
		}
	}
	sort.Strings(shared)

	// Pair each bucket; results land at the bucket's own slot so worker
	// scheduling cannot change the merge order.
	paired := make([][]matchedPair, len(shared))
	workers := min(cfg.Workers, len(shared))
	if workers <= 1 {
		for i, fp := range shared {
			b := buckets[fp]
			paired[i] = pairBucket(b[0], b[1])
		}
	} else {
		bucketCh := make(chan int, len(shared))
		var wg sync.WaitGroup
		for range workers {
			wg.Go(func() {
				for i := range bucketCh {
					b := buckets[shared[i]]
					paired[i] = pairBucket(b[0], b[1])
				}
			})
		}
		for i := range shared {
			bucketCh <- i
		}
		close(bucketCh)
		wg.Wait()
	}

	var pairs []matchedPair
	for _, bucketPairs := range paired {
		for _, p := range bucketPairs {
			oldDone[p.oldRec] = true
			newDone[p.newRec] = true
		}
		pairs = append(pairs, bucketPairs...)
	}
	return pairs
}

// unmatched filters a bucket down to records not yet matched, keeping order.
func unmatched(bucket []*schema.FileRecord, done map[*schema.FileRecord]bool) []*schema.FileRecord {
	var out []*schema.FileRecord
	for _, rec := range bucket {
		if !done[rec] {
			out = append(out, rec)
		}
	}
	return out
}

// pairBucket greedily pairs old and new records sharing one fingerprint by
// smallest path edit distance. Ties fall back to rune-level distance and then
// to lexicographic path order; both input slices arrive sorted by path, so
// the scan order itself realizes the lexicographic tie-break.
func pairBucket(olds, news []*schema.FileRecord) []matchedPair {
	var pairs []matchedPair
	for len(olds) > 0 && len(news) > 0 {
		bestI, bestJ := 0, 0
		bestSeg := algo.PathDistance(olds[0].Path, news[0].Path)
		bestStr := algo.StringDistance(olds[0].Path, news[0].Path)
		for i := range olds {
			for j := range news {
				if i == 0 && j == 0 {
					continue
				}
				seg := algo.PathDistance(olds[i].Path, news[j].Path)
				if seg > bestSeg {
					continue
				}
				str := algo.StringDistance(olds[i].Path, news[j].Path)
				if seg < bestSeg || str < bestStr {
					bestI, bestJ, bestSeg, bestStr = i, j, seg, str
				}
			}
		}
		pairs = append(pairs, matchedPair{oldRec: olds[bestI], newRec: news[bestJ], kind: schema.MovedKind})
		olds = append(olds[:bestI], olds[bestI+1:]...)
		news = append(news[:bestJ], news[bestJ+1:]...)
	}
	return pairs
}
