// Package analysis defines the review-analysis output types, the trend and
// quality classifications, and the theme lexicon.
package analysis

import (
	"github.com/dinerank/dinerank/internal/domain/source"
)

// Trend classifies how ratings moved over the ordered review history.
type Trend string

// Trend values. Stable doubles as the insufficient-data fallback when fewer
// than MinTrendReviews usable reviews exist.
const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

// MinTrendReviews is the minimum number of timestamped, rated reviews
// required before a trend is measured rather than defaulted.
const MinTrendReviews = 10

// Quality is the coarse data-quality label derived from the confidence
// components.
type Quality string

// Quality buckets, highest first.
const (
	QualityHigh    Quality = "high"
	QualityMedium  Quality = "medium"
	QualityLow     Quality = "low"
	QualityVeryLow Quality = "very low"
)

// Distribution is the sentiment split of a review set, in percent.
// Positive + Neutral + Negative sums to ~100 (rounding tolerated).
type Distribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// ThemeSummary aggregates what reviewers said about one theme. All four
// themes are always present in a Result, even with zero mentions, so the
// output schema stays stable.
type ThemeSummary struct {
	Theme          Theme    `json:"theme"`
	Mentions       int      `json:"mentions"`
	AverageRating  float64  `json:"average_rating"`
	SentimentScore float64  `json:"sentiment_score"`
	Keywords       []string `json:"keywords"`
	MentionPercent float64  `json:"mention_percent"`
}

// TopReview is one entry of the balanced top-review selection.
type TopReview struct {
	Source       source.Source `json:"source"`
	Rating       float64       `json:"rating"`
	Text         string        `json:"text"`
	Author       string        `json:"author"`
	Authenticity float64       `json:"authenticity"`
	Synthetic    bool          `json:"synthetic,omitempty"`
}

// Narrative is the optional generative enrichment attached to a Result.
// Absence means "no enrichment available", never an error.
type Narrative struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

// Result is the unified analysis of a mixed-source review set for one
// restaurant. Created per request, never mutated, cached by request key.
type Result struct {
	DisplayName  string                `json:"display_name"`
	UnifiedScore float64               `json:"unified_score"`
	TotalReviews int                   `json:"total_reviews"`
	Confidence   int                   `json:"confidence"` // 0-100
	Sentiment    Distribution          `json:"sentiment"`
	Themes       []ThemeSummary        `json:"themes"`
	Trend        Trend                 `json:"trend"`
	TopReviews   []TopReview           `json:"top_reviews"`
	SourcesUsed  int                   `json:"sources_used"`
	Quality      Quality               `json:"quality"`
	ReviewsBySrc map[source.Source]int `json:"reviews_by_source"`
	Message      string                `json:"message,omitempty"`
	Narrative    *Narrative            `json:"narrative,omitempty"`
}
