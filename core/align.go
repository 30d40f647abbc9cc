package core

import (
	"github.com/scanwork/deltascan/schema"
)

// alignSnapshots strips leading path segments from both snapshots so the two
// trees share a common root. The anchor is a uniquely named file present on
// both sides with an identical fingerprint. When no anchor exists the
// originals are returned together with an AlignmentError; alignment is
// best-effort and the caller proceeds unaligned.
func alignSnapshots(oldSnap, newSnap *schema.Snapshot) (*schema.Snapshot, *schema.Snapshot, error) {
	oldOffset, newOffset, err := alignOffsets(oldSnap, newSnap)
	if err != nil {
		return oldSnap, newSnap, err
	}
	if oldOffset == 0 && newOffset == 0 {
		return oldSnap, newSnap, nil
	}
	return stripSegments(oldSnap, oldOffset), stripSegments(newSnap, newOffset), nil
}

// alignOffsets returns the number of leading path segments to remove from the
// old and new snapshot respectively to obtain equal paths for the anchor file.
func alignOffsets(oldSnap, newSnap *schema.Snapshot) (int, int, error) {
	oldUniques := uniquesByName(oldSnap)
	newUniques := uniquesByName(newSnap)

	var oldAnchor, newAnchor *schema.FileRecord
	for name, oldRec := range oldUniques {
		newRec, ok := newUniques[name]
		if !ok {
			continue
		}
		if oldRec.Fingerprint == newRec.Fingerprint {
			// Prefer the lexicographically smallest anchor path so the
			// offsets do not depend on map iteration order.
			if oldAnchor == nil || oldRec.Path < oldAnchor.Path {
				oldAnchor, newAnchor = oldRec, newRec
			}
		}
	}
	if oldAnchor == nil {
		return 0, 0, &schema.AlignmentError{OldLabel: oldSnap.Label, NewLabel: newSnap.Label}
	}
	if oldAnchor.Path == newAnchor.Path {
		return 0, 0, nil
	}

	common := schema.CommonPathSuffix(oldAnchor.Path, newAnchor.Path)
	oldOffset := len(schema.SplitPath(oldAnchor.Path)) - common
	newOffset := len(schema.SplitPath(newAnchor.Path)) - common
	return oldOffset, newOffset, nil
}

// uniquesByName maps file names to records for names occurring exactly once.
func uniquesByName(snap *schema.Snapshot) map[string]*schema.FileRecord {
	counts := make(map[string]int, len(snap.Files))
	for i := range snap.Files {
		counts[snap.Files[i].Name()]++
	}
	uniques := make(map[string]*schema.FileRecord)
	for i := range snap.Files {
		rec := &snap.Files[i]
		if counts[rec.Name()] == 1 {
			uniques[rec.Name()] = rec
		}
	}
	return uniques
}

// stripSegments returns a copy of the snapshot with the first offset path
// segments removed from every record. Records shorter than the offset keep
// their paths unchanged.
func stripSegments(snap *schema.Snapshot, offset int) *schema.Snapshot {
	if offset <= 0 {
		return snap
	}
	stripped := &schema.Snapshot{Label: snap.Label, Files: make([]schema.FileRecord, len(snap.Files))}
	copy(stripped.Files, snap.Files)
	for i := range stripped.Files {
		segments := schema.SplitPath(stripped.Files[i].Path)
		if len(segments) > offset {
			stripped.Files[i].Path = schema.JoinPath(segments[offset:])
		}
	}
	return stripped
}
