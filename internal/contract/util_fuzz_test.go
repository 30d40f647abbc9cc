package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncatePath fuzzes TruncatePath with random paths and widths.
func FuzzTruncatePath(f *testing.F) {
	seeds := []struct {
		path  string
		width int
	}{
		{"main.go", 40},
		{"very/long/nested/path/to/file.txt", 15},
		{"", 10},
		{"unicode/файл/路径.go", 8},
		{"x", 0},
		{"a/b", -5},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.width)
	}

	f.Fuzz(func(t *testing.T, path string, width int) {
		out := TruncatePath(path, width)

		// Never longer than the input.
		if utf8.RuneCountInString(out) > utf8.RuneCountInString(path) {
			t.Errorf("truncation grew %q into %q", path, out)
		}
		// Truncated output respects the requested width.
		if out != path && utf8.RuneCountInString(out) > width {
			t.Errorf("width %d violated: %q", width, out)
		}
	})
}
