// Package suggest finds the closest known name to a misspelt one.
package suggest

import (
	"strings"
	"unicode"
)

// MinScore is the similarity below which Closest reports no match.
const MinScore = 0.6

// Closest returns the candidate most similar to name after normalization.
// Ties keep the earlier candidate. It reports false when no candidate
// scores at least MinScore.
func Closest(name string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0

	for _, c := range candidates {
		if s := Score(name, c); s > bestScore {
			best, bestScore = c, s
		}
	}

	if bestScore < MinScore {
		return "", false
	}

	return best, true
}

// Score is the similarity of a and b between 0 and 1, computed on their
// normalized forms.
func Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" && b == "" {
		return 1
	}

	n := max(len([]rune(a)), len([]rune(b)))

	return 1 - float64(Distance(a, b))/float64(n)
}

// Normalize lowercases s and drops '_', '-', '.' and spaces, so that
// "inter_location", "InterLocation" and "inter.location" compare equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// Distance is the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// two rows over the shorter string
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}
