package review

import (
	"math"
	"strings"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
)

// maxThemeKeywords caps the distinct matched keywords reported per theme,
// in first-seen order.
const maxThemeKeywords = 5

// Sentiment anchors used to adjust a mentioning review's rating toward the
// tone of its matched keywords. A negative-tier match pulls the rating toward
// the negative anchor, a positive-tier match toward the positive one.
const (
	negativeAnchor = 2.5
	positiveAnchor = 3.5
)

// themes extracts all four theme summaries from the review set. Every theme
// is present in the output even with zero mentions.
func (e *Engine) themes(reviews []review.Review) []analysis.ThemeSummary {
	out := make([]analysis.ThemeSummary, 0, len(analysis.Themes()))
	for _, th := range analysis.Themes() {
		out = append(out, e.themeSummary(th, reviews))
	}
	return out
}

func (e *Engine) themeSummary(theme analysis.Theme, reviews []review.Review) analysis.ThemeSummary {
	tiers := e.lexicon[theme]

	var (
		mentions     int
		ratingSum    float64
		sentimentSum float64
		keywords     []string
		seen         = make(map[string]bool)
	)
	for i := range reviews {
		text := strings.ToLower(reviews[i].Text())

		matchedNeg := anyMatch(text, tiers.Negative, &keywords, seen)
		matchedPos := anyMatch(text, tiers.Positive, &keywords, seen)
		matchedNeu := anyMatch(text, tiers.Neutral, &keywords, seen)
		if !matchedNeg && !matchedPos && !matchedNeu {
			continue
		}

		mentions++
		rating := reviews[i].Rating()
		ratingSum += rating
		// Negative keywords dominate: a review complaining about one
		// aspect counts against the theme even if it praises another.
		switch {
		case matchedNeg:
			sentimentSum += (rating + negativeAnchor) / 2
		case matchedPos:
			sentimentSum += (rating + positiveAnchor) / 2
		default:
			sentimentSum += rating
		}
	}

	summary := analysis.ThemeSummary{Theme: theme, Keywords: []string{}}
	if mentions == 0 {
		return summary
	}
	if len(keywords) > maxThemeKeywords {
		keywords = keywords[:maxThemeKeywords]
	}
	summary.Mentions = mentions
	summary.AverageRating = round1(ratingSum / float64(mentions))
	summary.SentimentScore = round1(sentimentSum / float64(mentions))
	summary.Keywords = keywords
	summary.MentionPercent = roundPercent(float64(mentions) / float64(len(reviews)) * 100)
	return summary
}

// anyMatch reports whether any tier keyword occurs in text, collecting
// newly seen matches into keywords as a side effect.
func anyMatch(text string, tier []string, keywords *[]string, seen map[string]bool) bool {
	matched := false
	for _, kw := range tier {
		if strings.Contains(text, kw) {
			matched = true
			if !seen[kw] {
				seen[kw] = true
				*keywords = append(*keywords, kw)
			}
		}
	}
	return matched
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
