// Package review implements the review-analysis engine: it turns a
// mixed-source review set for one restaurant into a unified score, theme and
// sentiment breakdowns, a trend classification, and a balanced top-review
// selection.
package review

import (
	"fmt"
	"math"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// DefaultSourceWeights weight Yelp reviews slightly above Google ones in the
// unified score, reflecting Yelp's stronger review moderation. Tunable
// configuration, not a constant of the algorithm.
func DefaultSourceWeights() map[source.Source]float64 {
	return map[source.Source]float64{
		source.Google: 1.0,
		source.Yelp:   1.1,
	}
}

// Config tunes the analysis engine. Zero values take the defaults.
type Config struct {
	SourceWeights map[source.Source]float64
	Lexicon       analysis.Lexicon
}

// Engine computes review analyses. Stateless and safe for concurrent use.
type Engine struct {
	weights map[source.Source]float64
	lexicon analysis.Lexicon
}

// New creates an analysis engine.
func New(cfg Config) (*Engine, error) {
	if cfg.SourceWeights == nil {
		cfg.SourceWeights = DefaultSourceWeights()
	}
	for s, w := range cfg.SourceWeights {
		if w <= 0 {
			return nil, fmt.Errorf("source weight for %s must be positive, got %v", s, w)
		}
	}
	if cfg.Lexicon == nil {
		cfg.Lexicon = analysis.DefaultLexicon()
	}
	return &Engine{weights: cfg.SourceWeights, lexicon: cfg.Lexicon}, nil
}

// Analyze produces the unified analysis for one restaurant's review set.
// Total for any input: an empty set yields the low-confidence fallback
// result, never an error.
func (e *Engine) Analyze(reviews []review.Review, displayName string) analysis.Result {
	if len(reviews) == 0 {
		return fallbackResult(displayName)
	}

	bySrc := make(map[source.Source]int)
	for i := range reviews {
		bySrc[reviews[i].Source()]++
	}
	sourcesUsed := len(bySrc)

	raw := confidenceComponents(reviews, sourcesUsed)
	conf := raw.total()
	if conf > 100 {
		conf = 100
	}

	return analysis.Result{
		DisplayName:  displayName,
		UnifiedScore: e.unifiedScore(reviews),
		TotalReviews: len(reviews),
		Confidence:   conf,
		Sentiment:    sentimentDistribution(reviews),
		Themes:       e.themes(reviews),
		Trend:        classifyTrend(reviews),
		TopReviews:   balancedTop(reviews, maxTopReviews),
		SourcesUsed:  sourcesUsed,
		Quality:      qualityLabel(raw.total()),
		ReviewsBySrc: bySrc,
	}
}

// unifiedScore is the source-weighted mean of the star ratings, rounded to
// one decimal place like the platform ratings it blends.
func (e *Engine) unifiedScore(reviews []review.Review) float64 {
	var sum, weight float64
	for i := range reviews {
		w, ok := e.weights[reviews[i].Source()]
		if !ok {
			w = 1.0
		}
		sum += reviews[i].Rating() * w
		weight += w
	}
	return math.Round(sum/weight*10) / 10
}

// Sentiment classification thresholds: positive at four stars and up,
// negative at two and below, everything between is neutral.
func sentimentDistribution(reviews []review.Review) analysis.Distribution {
	var pos, neu, neg int
	for i := range reviews {
		switch rating := reviews[i].Rating(); {
		case rating >= 4:
			pos++
		case rating <= 2:
			neg++
		default:
			neu++
		}
	}
	total := float64(len(reviews))
	return analysis.Distribution{
		Positive: roundPercent(float64(pos) / total * 100),
		Neutral:  roundPercent(float64(neu) / total * 100),
		Negative: roundPercent(float64(neg) / total * 100),
	}
}

func roundPercent(f float64) float64 {
	return math.Round(f*10) / 10
}

// fallbackResult is returned when no reviews are available from any source.
// All four themes are still present so the output schema stays stable.
func fallbackResult(displayName string) analysis.Result {
	themes := make([]analysis.ThemeSummary, 0, len(analysis.Themes()))
	for _, th := range analysis.Themes() {
		themes = append(themes, analysis.ThemeSummary{Theme: th, Keywords: []string{}})
	}
	return analysis.Result{
		DisplayName:  displayName,
		Confidence:   10,
		Themes:       themes,
		Trend:        analysis.Stable,
		TopReviews:   []analysis.TopReview{},
		Quality:      analysis.QualityVeryLow,
		ReviewsBySrc: map[source.Source]int{},
		Message:      "No reviews available from any platform yet.",
	}
}
