package core

import (
	"sort"

	"github.com/scanwork/deltascan/schema"
)

// Index provides content- and path-keyed lookups over one snapshot.
// It is read-only after construction; the matcher consumes two of these.
type Index struct {
	snapshot      *schema.Snapshot
	byFingerprint map[string][]*schema.FileRecord
	byPath        map[string]*schema.FileRecord
}

// BuildIndex validates the snapshot and builds its lookup structures.
// Records missing a path or fingerprint fail with MalformedRecordError;
// two records sharing a path fail with DuplicatePathError.
func BuildIndex(snap *schema.Snapshot) (*Index, error) {
	idx := &Index{
		snapshot:      snap,
		byFingerprint: make(map[string][]*schema.FileRecord, len(snap.Files)),
		byPath:        make(map[string]*schema.FileRecord, len(snap.Files)),
	}

	for i := range snap.Files {
		rec := &snap.Files[i]
		if rec.Path == "" {
			return nil, &schema.MalformedRecordError{Snapshot: snap.Label, Index: i, Field: "path"}
		}
		if rec.Fingerprint == "" {
			return nil, &schema.MalformedRecordError{Snapshot: snap.Label, Index: i, Field: "fingerprint"}
		}
		if _, dup := idx.byPath[rec.Path]; dup {
			return nil, &schema.DuplicatePathError{Snapshot: snap.Label, Path: rec.Path}
		}
		idx.byPath[rec.Path] = rec
		idx.byFingerprint[rec.Fingerprint] = append(idx.byFingerprint[rec.Fingerprint], rec)
	}

	// Buckets are traversed in path order so matching stays deterministic.
	for _, bucket := range idx.byFingerprint {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Path < bucket[j].Path })
	}

	return idx, nil
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.byPath)
}

// ByPath returns the record at the given path, nil when absent.
func (idx *Index) ByPath(path string) *schema.FileRecord {
	return idx.byPath[path]
}

// Bucket returns the records sharing the given fingerprint, in path order.
func (idx *Index) Bucket(fingerprint string) []*schema.FileRecord {
	return idx.byFingerprint[fingerprint]
}

// Fingerprints returns all distinct fingerprints in ascending order.
func (idx *Index) Fingerprints() []string {
	fps := make([]string, 0, len(idx.byFingerprint))
	for fp := range idx.byFingerprint {
		fps = append(fps, fp)
	}
	sort.Strings(fps)
	return fps
}

// Records returns the indexed records in snapshot order.
func (idx *Index) Records() []*schema.FileRecord {
	recs := make([]*schema.FileRecord, 0, len(idx.snapshot.Files))
	for i := range idx.snapshot.Files {
		recs = append(recs, &idx.snapshot.Files[i])
	}
	return recs
}

// Label returns the label of the underlying snapshot.
func (idx *Index) Label() string {
	return idx.snapshot.Label
}
