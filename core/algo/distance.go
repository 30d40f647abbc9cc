// Package algo has the distance and similarity primitives used for matching
// and classifying file paths.
package algo

import (
	"github.com/agext/levenshtein"

	"github.com/scanwork/deltascan/schema"
)

// PathDistance returns the edit distance between two slash-separated paths,
// counted in whole segments: inserting, deleting, or replacing one segment
// each cost 1. Identical paths have distance 0.
func PathDistance(a, b string) int {
	as := schema.SplitPath(a)
	bs := schema.SplitPath(b)

	if len(as) == 0 {
		return len(bs)
	}
	if len(bs) == 0 {
		return len(as)
	}

	prev := make([]int, len(bs)+1)
	curr := make([]int, len(bs)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(as); i++ {
		curr[0] = i
		for j := 1; j <= len(bs); j++ {
			cost := 1
			if as[i-1] == bs[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(bs)]
}

// StringDistance returns the rune-level Levenshtein distance between two
// strings. Used as a secondary tie-break when two candidate paths are equally
// far apart in segments.
func StringDistance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// Similarity returns how alike two paths are on a 0-100 scale, where 100
// means identical. Higher values indicate a more plausible move pairing.
func Similarity(a, b string) int {
	return int(levenshtein.Similarity(a, b, nil) * 100)
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
