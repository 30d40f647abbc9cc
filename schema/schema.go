// Package schema has configs, models and shared constants for all parts of deltascan.
package schema

import "path"

// FileRecord represents one file in a scan inventory.
// It carries the file's path, size, content fingerprint, and the named
// attributes (license, copyright, ...) the upstream scanner extracted.
// Records are immutable once a Snapshot is loaded.
type FileRecord struct {
	Path        string            `json:"path"`                 // Slash-separated path relative to the scan root
	Size        int64             `json:"size"`                 // File size in bytes, never negative
	Fingerprint string            `json:"fingerprint"`          // Content-identity hash (path-independent)
	Attributes  map[string]string `json:"attributes,omitempty"` // Named scan attributes, e.g. license, copyright
}

// Attr returns the named attribute value and whether it is present.
func (r *FileRecord) Attr(name string) (string, bool) {
	if r.Attributes == nil {
		return "", false
	}
	v, ok := r.Attributes[name]
	return v, ok
}

// Name returns the final path segment of the record.
func (r *FileRecord) Name() string {
	return path.Base(r.Path)
}

// Snapshot is one full file inventory at a point in time.
// Paths are unique within a snapshot; the inventory loader and the
// fingerprint index both enforce that invariant.
type Snapshot struct {
	Label string       `json:"label,omitempty"` // Human-readable origin, e.g. the inventory file name
	Files []FileRecord `json:"files"`
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Files)
}

// Delta is a single classified change between two snapshots.
// It borrows its FileRecords from the snapshots, which must outlive the Report.
// At least one of Old and New is always populated.
type Delta struct {
	Kind    DeltaKind             `json:"kind"`          // added, removed, modified, moved, unmodified
	Old     *FileRecord           `json:"old,omitempty"` // Record from the old snapshot, nil for added
	New     *FileRecord           `json:"new,omitempty"` // Record from the new snapshot, nil for removed
	Factors map[FactorKey]float64 `json:"factors"`       // Named numeric contributions to the score
	Score   float64               `json:"score"`         // Weighted sum of factors
}

// Path returns the delta's canonical path: the new-side path when present,
// otherwise the old-side path. Used for ordering and display.
func (d *Delta) Path() string {
	if d.New != nil {
		return d.New.Path
	}
	return d.Old.Path
}

// Factor returns the value of the named factor, 0 when absent.
func (d *Delta) Factor(key FactorKey) float64 {
	return d.Factors[key]
}

// Report is the deterministically ordered outcome of one diff run.
// Deltas are sorted by score descending, canonical factors ascending,
// then path ascending; the order is total with no unresolved ties.
type Report struct {
	Deltas  []Delta       `json:"deltas"`
	Summary ReportSummary `json:"summary"`
}

// ReportSummary has high-level counts and aggregate deltas for one run.
type ReportSummary struct {
	TotalOldFiles int `json:"total_old_files"` // Records in the old snapshot
	TotalNewFiles int `json:"total_new_files"` // Records in the new snapshot

	Added      int `json:"added"`
	Removed    int `json:"removed"`
	Modified   int `json:"modified"`
	Moved      int `json:"moved"`
	Unmodified int `json:"unmodified"`

	NetSizeDelta   int64   `json:"net_size_delta"`  // Sum of new sizes minus sum of old sizes
	PercentChanged float64 `json:"percent_changed"` // Share of deltas that are not unmodified, 0-100
}

// Count returns the summary count for the given delta kind.
func (s *ReportSummary) Count(kind DeltaKind) int {
	switch kind {
	case AddedKind:
		return s.Added
	case RemovedKind:
		return s.Removed
	case ModifiedKind:
		return s.Modified
	case MovedKind:
		return s.Moved
	case UnmodifiedKind:
		return s.Unmodified
	default:
		return 0
	}
}
