package schema

import "fmt"

// DuplicatePathError reports two records sharing a path within one snapshot.
// It is fatal and aborts before matching.
type DuplicatePathError struct {
	Snapshot string // Snapshot label
	Path     string // The duplicated path
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate path %q in snapshot %q", e.Path, e.Snapshot)
}

// MalformedRecordError reports a record missing a required field.
// It is fatal for the snapshot being loaded.
type MalformedRecordError struct {
	Snapshot string // Snapshot label
	Index    int    // Zero-based position of the record in the inventory
	Field    string // Name of the missing field: "path" or "fingerprint"
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d in snapshot %q is missing %s", e.Index, e.Snapshot, e.Field)
}

// AlignmentError reports that no unique anchor file could be found to align
// the two snapshot trees. Alignment is best-effort; callers proceed with the
// original paths when they see this error.
type AlignmentError struct {
	OldLabel string
	NewLabel string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("no common anchor file between snapshots %q and %q", e.OldLabel, e.NewLabel)
}
