package review

import (
	"strings"
	"unicode"
)

// Authenticity bounds. The floor is deliberately non-zero so that no review
// becomes unrecoverable through this score alone; exclusion is a separate
// decision made where reviews are fetched.
const (
	MinAuthenticity = 0.1
	MaxAuthenticity = 1.0
)

// genericPhrases are superlatives common in templated reviews. A single hit
// is normal enthusiasm; clusters of them read as boilerplate.
var genericPhrases = []string{
	"best ever",
	"amazing",
	"awesome",
	"incredible",
	"must try",
	"to die for",
	"life changing",
	"hidden gem",
	"highly recommend",
}

// spamPhrases indicate promotional rather than experiential text.
var spamPhrases = []string{
	"click here",
	"promo code",
	"discount code",
	"follow me",
	"check out my",
	"visit my website",
	"dm me",
	"free meal",
}

// Penalty and bonus table for the authenticity heuristic.
const (
	genericClusterPenalty = 0.1 // per generic phrase once more than one matched
	spamPenalty           = 0.25
	capsPenalty           = 0.2  // more than half the letters upper-case
	exclamationPenalty    = 0.2  // more than three exclamation marks
	veryShortPenalty      = 0.3  // under 25 characters
	shortPenalty          = 0.1  // under 50 characters
	noWordsPenalty        = 0.3  // fewer than three letters in the whole text
	detailBonus           = 0.1  // over 500 characters
	lowCredibilityPenalty = 0.15 // author has fewer than 3 reviews
	highCredibilityBonus  = 0.1  // author has more than 50 reviews
)

// scoreAuthenticity derives the heuristic genuineness score for a review.
// Deterministic over the review's text, rating and credibility signal.
func scoreAuthenticity(r Review) float64 {
	s := 1.0
	text := r.text
	lower := strings.ToLower(text)

	if hits := countPhrases(lower, genericPhrases); hits > 1 {
		s -= float64(hits) * genericClusterPenalty
	}
	s -= float64(countPhrases(lower, spamPhrases)) * spamPenalty

	upper, letters := 0, 0
	for _, c := range text {
		if unicode.IsLetter(c) {
			letters++
			if unicode.IsUpper(c) {
				upper++
			}
		}
	}
	if letters > 0 && float64(upper) > float64(letters)*0.5 {
		s -= capsPenalty
	}
	if letters < 3 {
		s -= noWordsPenalty
	}
	if strings.Count(text, "!") > 3 {
		s -= exclamationPenalty
	}

	switch n := len([]rune(text)); {
	case n < 25:
		s -= veryShortPenalty
	case n < 50:
		s -= shortPenalty
	case n > 500:
		s += detailBonus
	}

	if n, ok := r.AuthorReviews(); ok {
		switch {
		case n < 3:
			s -= lowCredibilityPenalty
		case n > 50:
			s += highCredibilityBonus
		}
	}

	if s < MinAuthenticity {
		return MinAuthenticity
	}
	if s > MaxAuthenticity {
		return MaxAuthenticity
	}
	return s
}

func countPhrases(lower string, phrases []string) int {
	hits := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			hits++
		}
	}
	return hits
}
