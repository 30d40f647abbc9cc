package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaPath(t *testing.T) {
	oldRec := &FileRecord{Path: "old/a.txt", Fingerprint: "X"}
	newRec := &FileRecord{Path: "new/a.txt", Fingerprint: "X"}

	moved := Delta{Kind: MovedKind, Old: oldRec, New: newRec}
	assert.Equal(t, "new/a.txt", moved.Path())

	removed := Delta{Kind: RemovedKind, Old: oldRec}
	assert.Equal(t, "old/a.txt", removed.Path())
}

func TestFileRecordAttr(t *testing.T) {
	rec := FileRecord{
		Path:        "a.txt",
		Fingerprint: "X",
		Attributes:  map[string]string{"license": "apache-2.0"},
	}

	v, ok := rec.Attr("license")
	assert.True(t, ok)
	assert.Equal(t, "apache-2.0", v)

	_, ok = rec.Attr("copyright")
	assert.False(t, ok)

	bare := FileRecord{Path: "b.txt", Fingerprint: "Y"}
	_, ok = bare.Attr("license")
	assert.False(t, ok)
}

func TestFileRecordName(t *testing.T) {
	rec := FileRecord{Path: "a/b/c.txt"}
	assert.Equal(t, "c.txt", rec.Name())
}

func TestSummaryCount(t *testing.T) {
	s := ReportSummary{Added: 1, Removed: 2, Modified: 3, Moved: 4, Unmodified: 5}

	assert.Equal(t, 1, s.Count(AddedKind))
	assert.Equal(t, 2, s.Count(RemovedKind))
	assert.Equal(t, 3, s.Count(ModifiedKind))
	assert.Equal(t, 4, s.Count(MovedKind))
	assert.Equal(t, 5, s.Count(UnmodifiedKind))
	assert.Equal(t, 0, s.Count(DeltaKind("bogus")))
}

func TestErrorMessages(t *testing.T) {
	dup := &DuplicatePathError{Snapshot: "old", Path: "a/b.txt"}
	assert.Contains(t, dup.Error(), "a/b.txt")
	assert.Contains(t, dup.Error(), "old")

	mal := &MalformedRecordError{Snapshot: "new", Index: 3, Field: "fingerprint"}
	assert.Contains(t, mal.Error(), "fingerprint")

	align := &AlignmentError{OldLabel: "old", NewLabel: "new"}
	assert.Contains(t, align.Error(), "anchor")
}
