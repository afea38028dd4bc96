// Package similarity provides the pure string and geographic similarity
// primitives used by entity resolution. All functions are deterministic,
// symmetric, and return values in [0,1].
package similarity

import (
	"strings"
	"unicode"

	"github.com/dinerank/dinerank/internal/domain/geo"
)

// genericWords are restaurant-type words stripped before name comparison so
// that "Luigi's Restaurant" and "Luigi's" compare as the same name.
var genericWords = map[string]bool{
	"the": true, "a": true, "restaurant": true, "cafe": true, "café": true,
	"grill": true, "bar": true, "kitchen": true, "bistro": true,
	"eatery": true, "diner": true, "house": true, "place": true,
}

// Edit returns 1 minus the normalized Levenshtein distance over the longer
// string's rune length. Two empty strings are identical (1.0).
func Edit(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1.0
	}
	longer := la
	if lb > longer {
		longer = lb
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longer)
}

// levenshtein computes edit distance with a two-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Token returns the Dice coefficient over distinct whitespace tokens longer
// than one character. Falls back to Edit when either string has no
// qualifying tokens (short or single-word inputs).
func Token(a, b string) float64 {
	ta, tb := qualifyingTokens(a), qualifyingTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return Edit(a, b)
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	return 2.0 * float64(shared) / float64(len(ta)+len(tb))
}

func qualifyingTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) > 1 {
			tokens[tok] = true
		}
	}
	return tokens
}

// Name blends edit and token similarity over normalized names.
// Generic restaurant-type words never dominate the match.
func Name(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	return 0.6*Edit(na, nb) + 0.4*Token(na, nb)
}

// Address compares the street segments (text before the first comma) of two
// addresses using Name similarity. Returns 0 if either address is empty.
func Address(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return Name(streetSegment(a), streetSegment(b))
}

func streetSegment(addr string) string {
	if i := strings.Index(addr, ","); i >= 0 {
		return strings.TrimSpace(addr[:i])
	}
	return strings.TrimSpace(addr)
}

// Geo maps the haversine distance between two coordinates onto a step scale:
// within 50m → 1.0, 200m → 0.8, 500m → 0.5, farther → 0. A missing
// coordinate on either side scores 0.
func Geo(a, b *geo.Point) float64 {
	if a == nil || b == nil {
		return 0
	}
	switch km := geo.HaversineKm(*a, *b); {
	case km <= 0.05:
		return 1.0
	case km <= 0.2:
		return 0.8
	case km <= 0.5:
		return 0.5
	default:
		return 0
	}
}

// Normalize lower-cases, strips punctuation, and removes generic
// restaurant-type words. Exported so address comparison and query matching
// share the same canonical form.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
		// punctuation dropped
	}

	fields := strings.Fields(sb.String())
	kept := fields[:0]
	for _, f := range fields {
		if !genericWords[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
