package schema

import (
	"sort"
	"strconv"
	"strings"
)

// SplitPath splits a slash-separated path into its segments.
// Leading and trailing slashes are ignored; the empty path has no segments.
func SplitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// JoinPath is the inverse of SplitPath.
func JoinPath(segments []string) string {
	return strings.Join(segments, "/")
}

// CommonPathSuffix returns the number of trailing segments two paths share.
func CommonPathSuffix(a, b string) int {
	as := SplitPath(a)
	bs := SplitPath(b)
	n := 0
	for n < len(as) && n < len(bs) {
		if as[len(as)-1-n] != bs[len(bs)-1-n] {
			break
		}
		n++
	}
	return n
}

// CanonicalFactors serializes a factors mapping into one canonical string:
// keys sorted ascending, each rendered as key=value and joined with ';'.
// Equal mappings always produce equal strings, which makes the result usable
// as a deterministic sort key.
func CanonicalFactors(factors map[FactorKey]float64) string {
	if len(factors) == 0 {
		return ""
	}
	keys := make([]string, 0, len(factors))
	for k := range factors {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(factors[FactorKey(k)], 'g', -1, 64))
	}
	return sb.String()
}

// CalculatePercent returns the rounded percentage of value over total,
// or 0 when total is zero.
func CalculatePercent(value, total int) float64 {
	if total == 0 {
		return 0
	}
	ratio := float64(value) / float64(total) * 100
	return float64(int(ratio*100+0.5)) / 100
}
