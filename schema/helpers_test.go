package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple", "a/b/c.txt", []string{"a", "b", "c.txt"}},
		{"single segment", "c.txt", []string{"c.txt"}},
		{"leading slash", "/a/b", []string{"a", "b"}},
		{"trailing slash", "a/b/", []string{"a", "b"}},
		{"empty", "", nil},
		{"root only", "/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPath(tt.path))
		})
	}
}

func TestCommonPathSuffix(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"identical", "a/b/c.txt", "a/b/c.txt", 3},
		{"shifted root", "root/a/b.txt", "other/a/b.txt", 2},
		{"no overlap", "a/b.txt", "c/d.txt", 0},
		{"different depth", "x/y/z/f.go", "z/f.go", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CommonPathSuffix(tt.a, tt.b))
		})
	}
}

func TestCanonicalFactors(t *testing.T) {
	factors := map[FactorKey]float64{
		FactorPathDelta:             1,
		FactorSizeDelta:             10,
		AttributeFactor("license"):  1,
		AttributeFactor("copyright"): 0,
	}

	canon := CanonicalFactors(factors)
	assert.Equal(t, "copyright_changed=0;license_changed=1;path_delta=1;size_delta=10", canon)

	// Repeated serialization of an equal mapping must be byte-identical.
	again := CanonicalFactors(map[FactorKey]float64{
		AttributeFactor("copyright"): 0,
		AttributeFactor("license"):  1,
		FactorSizeDelta:             10,
		FactorPathDelta:             1,
	})
	assert.Equal(t, canon, again)

	assert.Equal(t, "", CanonicalFactors(nil))
}

func TestCalculatePercent(t *testing.T) {
	assert.Equal(t, 50.0, CalculatePercent(1, 2))
	assert.Equal(t, 0.0, CalculatePercent(5, 0))
	assert.Equal(t, 33.33, CalculatePercent(1, 3))
}

func TestDefaultWeights(t *testing.T) {
	weights := DefaultWeights(DefaultTrackedAttributes)

	assert.Equal(t, DefaultLicenseWeight, weights[AttributeFactor("license")])
	assert.Equal(t, DefaultCopyrightWeight, weights[AttributeFactor("copyright")])
	assert.Equal(t, DefaultPathWeight, weights[FactorPathDelta])
	assert.Equal(t, DefaultSizeWeight, weights[FactorSizeDelta])

	// Attributes beyond the known pair get the generic weight.
	custom := DefaultWeights([]string{"license", "holder"})
	assert.Equal(t, DefaultAttributeWeight, custom[AttributeFactor("holder")])
}
