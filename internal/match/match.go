// Package match ranks identifiers by similarity. The generator uses it to
// suggest a declared type when a configured root does not resolve.
package match

import (
	"sort"
	"strings"
)

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return len(b)
	}

	// Two rows over the shorter string.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Normalize folds an identifier for comparison: lower case, separators removed.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '.':
			return -1
		}

		return r
	}, strings.ToLower(s))
}

// Similarity scores the normalized forms of a and b between 0 and 1.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	longest := max(len(na), len(nb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(na, nb))/float64(longest)
}

// Threshold is the minimum Similarity of a suggestion.
const Threshold = 0.6

// Suggest returns up to limit candidates close to name, best first. Ties
// keep candidate order.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored
	for _, c := range candidates {
		if s := Similarity(name, c); s >= Threshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, r.name)
	}

	return out
}
