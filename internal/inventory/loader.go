// Package inventory loads scan inventories from disk into snapshots.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// Loader reads JSON scan inventories of the form {"files": [...]}.
// Each file entry carries a path, a size, a content fingerprint and optional
// attribute data. Scancode-style entries are accepted: "sha1" serves as the
// fingerprint, and "licenses"/"copyrights" detections are folded into the
// "license"/"copyright" attributes.
type Loader struct{}

// NewLoader creates a filesystem-backed inventory loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ contract.InventoryLoader = (*Loader)(nil)

// rawInventory mirrors the JSON document on disk.
type rawInventory struct {
	Files []rawFile `json:"files"`
}

// rawFile accepts both the native and the scancode-style field layout.
type rawFile struct {
	Path        string            `json:"path"`
	Type        string            `json:"type"` // "file" or "directory"; empty means file
	Size        int64             `json:"size"`
	Fingerprint string            `json:"fingerprint"`
	SHA1        string            `json:"sha1"`
	Attributes  map[string]string `json:"attributes"`
	Licenses    []rawLicense      `json:"licenses"`
	Copyrights  []rawCopyright    `json:"copyrights"`
}

type rawLicense struct {
	Key string `json:"key"`
}

type rawCopyright struct {
	Value      string   `json:"value"`
	Statements []string `json:"statements"`
	Holders    []string `json:"holders"`
}

// Load reads the inventory at location and returns it as a labeled Snapshot.
// Directory entries are skipped. Loading fails with a *MalformedRecordError
// on a file entry missing its path or fingerprint, and with a
// *DuplicatePathError when two entries share a path.
func (l *Loader) Load(ctx context.Context, location string, label string) (*schema.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", location, err)
	}

	var raw rawInventory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", location, err)
	}

	snap := &schema.Snapshot{Label: label}
	seen := make(map[string]struct{}, len(raw.Files))
	for i, rf := range raw.Files {
		if rf.Type == "directory" {
			continue
		}

		rec, err := rf.toRecord(label, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[rec.Path]; dup {
			return nil, &schema.DuplicatePathError{Snapshot: label, Path: rec.Path}
		}
		seen[rec.Path] = struct{}{}
		snap.Files = append(snap.Files, rec)
	}
	return snap, nil
}

// toRecord validates one raw entry and folds its detections into attributes.
func (rf *rawFile) toRecord(label string, index int) (schema.FileRecord, error) {
	path := strings.Trim(rf.Path, "/")
	if path == "" {
		return schema.FileRecord{}, &schema.MalformedRecordError{Snapshot: label, Index: index, Field: "path"}
	}

	fingerprint := rf.Fingerprint
	if fingerprint == "" {
		fingerprint = rf.SHA1
	}
	if fingerprint == "" {
		return schema.FileRecord{}, &schema.MalformedRecordError{Snapshot: label, Index: index, Field: "fingerprint"}
	}

	attrs := make(map[string]string, len(rf.Attributes)+2)
	for k, v := range rf.Attributes {
		attrs[strings.ToLower(k)] = v
	}
	if v := foldLicenses(rf.Licenses); v != "" {
		attrs["license"] = v
	}
	if v := foldCopyrights(rf.Copyrights); v != "" {
		attrs["copyright"] = v
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	return schema.FileRecord{
		Path:        path,
		Size:        rf.Size,
		Fingerprint: fingerprint,
		Attributes:  attrs,
	}, nil
}

// foldLicenses joins detected license keys into one stable attribute value.
func foldLicenses(licenses []rawLicense) string {
	return joinUnique(func(yield func(string)) {
		for _, lic := range licenses {
			yield(lic.Key)
		}
	})
}

// foldCopyrights joins detected statements or holders into one stable value.
// A copyright entry may carry a single value, a statement list, or holders.
func foldCopyrights(copyrights []rawCopyright) string {
	return joinUnique(func(yield func(string)) {
		for _, c := range copyrights {
			yield(c.Value)
			for _, s := range c.Statements {
				yield(s)
			}
			for _, h := range c.Holders {
				yield(h)
			}
		}
	})
}

// joinUnique collects non-empty values, dedupes and sorts them, and joins
// with "; " so equality checks are order-independent.
func joinUnique(collect func(yield func(string))) string {
	seen := make(map[string]struct{})
	var values []string
	collect(func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		values = append(values, v)
	})
	sort.Strings(values)
	return strings.Join(values, "; ")
}
