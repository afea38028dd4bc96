package dinerank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dinerank/dinerank/internal/domain/analysis"
)

// ErrNoReviewSources is returned by Analyze when the client was built
// without any review-capable platform.
var ErrNoReviewSources = errors.New("dinerank: no review sources configured")

// Analyze runs the unified review analysis for one restaurant.
func (c *Client) Analyze(ctx context.Context, q AnalysisQuery) (_ Analysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	if c.profileSvc == nil {
		return Analysis{}, ErrNoReviewSources
	}

	req, err := analysis.NewRequest(q.GoogleID, q.YelpID, q.Name)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	res, err := c.profileSvc.Analyze(ctx, &req)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	return toAnalysis(res), nil
}

func toAnalysis(res analysis.Result) Analysis {
	out := Analysis{
		DisplayName:  res.DisplayName,
		UnifiedScore: res.UnifiedScore,
		TotalReviews: res.TotalReviews,
		Confidence:   res.Confidence,
		Sentiment: SentimentSplit{
			Positive: res.Sentiment.Positive,
			Neutral:  res.Sentiment.Neutral,
			Negative: res.Sentiment.Negative,
		},
		Trend:       string(res.Trend),
		SourcesUsed: res.SourcesUsed,
		Quality:     string(res.Quality),
		Message:     res.Message,
	}
	for _, th := range res.Themes {
		out.Themes = append(out.Themes, ThemeSummary{
			Theme:          string(th.Theme),
			Mentions:       th.Mentions,
			AverageRating:  th.AverageRating,
			SentimentScore: th.SentimentScore,
			Keywords:       th.Keywords,
			MentionPercent: th.MentionPercent,
		})
	}
	for _, tr := range res.TopReviews {
		out.TopReviews = append(out.TopReviews, TopReview{
			Platform:     string(tr.Source),
			Rating:       tr.Rating,
			Text:         tr.Text,
			Author:       tr.Author,
			Authenticity: tr.Authenticity,
			Synthetic:    tr.Synthetic,
		})
	}
	if len(res.ReviewsBySrc) > 0 {
		out.ReviewsBySrc = make(map[string]int, len(res.ReviewsBySrc))
		for src, n := range res.ReviewsBySrc {
			out.ReviewsBySrc[string(src)] = n
		}
	}
	if res.Narrative != nil {
		out.Narrative = &Narrative{
			Summary:    res.Narrative.Summary,
			Highlights: res.Narrative.Highlights,
		}
	}
	return out
}
