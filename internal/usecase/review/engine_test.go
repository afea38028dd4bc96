package review

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// rv builds a review with a fixed authenticity so tests control ranking
// inputs exactly.
func rv(src source.Source, rating float64, text, author string, authenticity float64) review.Review {
	return review.Reconstruct(review.Params{
		Source: src,
		Rating: rating,
		Text:   text,
		Author: author,
	}, authenticity)
}

func dated(src source.Source, rating float64, at time.Time) review.Review {
	return review.Reconstruct(review.Params{
		Source:   src,
		Rating:   rating,
		Text:     "solid visit overall",
		PostedAt: &at,
	}, 0.7)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze(nil, "Empty Plate")

	if got.UnifiedScore != 0 {
		t.Errorf("unified score = %v, want 0", got.UnifiedScore)
	}
	if got.Confidence != 10 {
		t.Errorf("confidence = %d, want 10", got.Confidence)
	}
	if got.Quality != analysis.QualityVeryLow {
		t.Errorf("quality = %q, want %q", got.Quality, analysis.QualityVeryLow)
	}
	if got.Trend != analysis.Stable {
		t.Errorf("trend = %q, want %q", got.Trend, analysis.Stable)
	}
	if got.Message == "" {
		t.Error("expected an explanatory message for the empty review set")
	}
	if len(got.Themes) != 4 {
		t.Fatalf("themes = %d, want all 4 present", len(got.Themes))
	}
	for _, th := range got.Themes {
		if th.Mentions != 0 {
			t.Errorf("theme %s has %d mentions on empty input", th.Theme, th.Mentions)
		}
	}
}

func TestAnalyze_UnifiedScoreWeightsSources(t *testing.T) {
	e, err := New(Config{SourceWeights: map[source.Source]float64{
		source.Google: 1.0,
		source.Yelp:   3.0,
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := e.Analyze([]review.Review{
		rv(source.Google, 2.0, "meh", "a", 0.5),
		rv(source.Yelp, 4.0, "great", "b", 0.5),
	}, "Weighted")

	// (2*1 + 4*3) / 4 = 3.5
	if got.UnifiedScore != 3.5 {
		t.Errorf("unified score = %v, want 3.5", got.UnifiedScore)
	}
}

func TestNew_RejectsNonPositiveWeight(t *testing.T) {
	_, err := New(Config{SourceWeights: map[source.Source]float64{source.Google: 0}})
	if err == nil {
		t.Fatal("expected error for zero source weight")
	}
}

func TestAnalyze_SentimentDistribution(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 5, "excellent", "a", 0.8),
		rv(source.Google, 4, "good", "b", 0.8),
		rv(source.Yelp, 3, "fine", "c", 0.8),
		rv(source.Yelp, 1, "awful", "d", 0.8),
	}, "Split")

	want := analysis.Distribution{Positive: 50, Neutral: 25, Negative: 25}
	if got.Sentiment != want {
		t.Errorf("sentiment = %+v, want %+v", got.Sentiment, want)
	}
}

func TestAnalyze_NonIntegerMidRatingIsNeutral(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 3.5, "decent enough", "a", 0.7),
	}, "Mid")

	if got.Sentiment.Neutral != 100 {
		t.Errorf("sentiment = %+v, want 3.5 stars classified neutral", got.Sentiment)
	}
}

func TestThemes_AllFourPresentAndScored(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 5, "The food was delicious and the staff so friendly", "a", 0.9),
		rv(source.Yelp, 2, "Totally overpriced and the service was slow service", "b", 0.6),
		rv(source.Google, 4, "Cozy atmosphere, lovely evening", "c", 0.8),
	}, "Themed")

	if len(got.Themes) != 4 {
		t.Fatalf("themes = %d, want 4", len(got.Themes))
	}
	byTheme := make(map[analysis.Theme]analysis.ThemeSummary)
	for _, th := range got.Themes {
		byTheme[th.Theme] = th
	}

	food := byTheme[analysis.ThemeFood]
	if food.Mentions != 1 {
		t.Errorf("food mentions = %d, want 1", food.Mentions)
	}
	// Positive match adjusts toward the positive anchor: (5+3.5)/2 = 4.25 -> 4.3.
	if food.SentimentScore != 4.3 {
		t.Errorf("food sentiment = %v, want 4.3", food.SentimentScore)
	}

	value := byTheme[analysis.ThemeValue]
	if value.Mentions != 1 {
		t.Errorf("value mentions = %d, want 1", value.Mentions)
	}
	// Negative match adjusts toward the negative anchor: (2+2.5)/2 = 2.25 -> 2.3.
	if value.SentimentScore != 2.3 {
		t.Errorf("value sentiment = %v, want 2.3", value.SentimentScore)
	}

	service := byTheme[analysis.ThemeService]
	if service.Mentions != 2 {
		t.Errorf("service mentions = %d, want 2 (praise + complaint)", service.Mentions)
	}
}

func TestThemes_NegativeKeywordDominatesMixedReview(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 3, "Delicious starters but the mains were bland", "a", 0.7),
	}, "Mixed")

	for _, th := range got.Themes {
		if th.Theme != analysis.ThemeFood {
			continue
		}
		// (3+2.5)/2 = 2.75 -> 2.8, not the positive-adjusted 3.25.
		if th.SentimentScore != 2.8 {
			t.Errorf("food sentiment = %v, want negative-dominant 2.8", th.SentimentScore)
		}
		return
	}
	t.Fatal("food theme missing from result")
}

func TestThemes_KeywordCap(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 5, "delicious tasty fresh juicy flavorful mouthwatering food", "a", 0.9),
	}, "Keywordy")

	for _, th := range got.Themes {
		if th.Theme == analysis.ThemeFood && len(th.Keywords) > maxThemeKeywords {
			t.Errorf("keywords = %d, want at most %d", len(th.Keywords), maxThemeKeywords)
		}
	}
}

func TestTrend_Improving(t *testing.T) {
	e := newEngine(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var reviews []review.Review
	for i := 0; i < 12; i++ {
		rating := 2.5
		if i >= 8 {
			rating = 4.5
		}
		reviews = append(reviews, dated(source.Google, rating, base.AddDate(0, i, 0)))
	}

	if got := e.Analyze(reviews, "Rising").Trend; got != analysis.Improving {
		t.Errorf("trend = %q, want %q", got, analysis.Improving)
	}
}

func TestTrend_Declining(t *testing.T) {
	e := newEngine(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var reviews []review.Review
	for i := 0; i < 12; i++ {
		rating := 4.8
		if i >= 8 {
			rating = 3.0
		}
		reviews = append(reviews, dated(source.Yelp, rating, base.AddDate(0, i, 0)))
	}

	if got := e.Analyze(reviews, "Falling").Trend; got != analysis.Declining {
		t.Errorf("trend = %q, want %q", got, analysis.Declining)
	}
}

func TestTrend_InsufficientDataIsStable(t *testing.T) {
	e := newEngine(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var reviews []review.Review
	for i := 0; i < analysis.MinTrendReviews-1; i++ {
		reviews = append(reviews, dated(source.Google, float64(1+i%5), base.AddDate(0, i, 0)))
	}

	if got := e.Analyze(reviews, "Sparse").Trend; got != analysis.Stable {
		t.Errorf("trend = %q, want %q with fewer than %d dated reviews", got, analysis.Stable, analysis.MinTrendReviews)
	}
}

func TestTrend_UndatedReviewsExcluded(t *testing.T) {
	e := newEngine(t)

	// 12 reviews but only 9 dated: below the trend threshold.
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var reviews []review.Review
	for i := 0; i < 9; i++ {
		reviews = append(reviews, dated(source.Google, 5, base.AddDate(0, i, 0)))
	}
	for i := 0; i < 3; i++ {
		reviews = append(reviews, rv(source.Yelp, 1, "no date on this one", fmt.Sprintf("u%d", i), 0.5))
	}

	if got := e.Analyze(reviews, "PartlyDated").Trend; got != analysis.Stable {
		t.Errorf("trend = %q, want %q when dated subset is too small", got, analysis.Stable)
	}
}

func TestBalancedTop_MinoritySourceGuaranteed(t *testing.T) {
	e := newEngine(t)

	reviews := []review.Review{
		rv(source.Google, 5, strings.Repeat("superb meal from start to finish ", 4), "g1", 0.9),
		rv(source.Google, 5, strings.Repeat("wonderful tasting menu, came back twice ", 4), "g2", 0.9),
		rv(source.Google, 5, strings.Repeat("flawless evening, perfect pacing ", 4), "g3", 0.9),
		rv(source.Google, 5, strings.Repeat("best dinner of the year for us ", 4), "g4", 0.9),
		rv(source.Google, 5, strings.Repeat("remarkable kitchen, remarkable value ", 4), "g5", 0.9),
		rv(source.Yelp, 2, "Pretty mediocre honestly", "y1", 0.4),
	}

	top := e.Analyze(reviews, "Lopsided").TopReviews
	if len(top) != 5 {
		t.Fatalf("top reviews = %d, want 5", len(top))
	}
	var hasYelp bool
	for _, tr := range top {
		if tr.Source == source.Yelp {
			hasYelp = true
		}
	}
	if !hasYelp {
		t.Error("minority source missing from balanced top selection")
	}
}

func TestBalancedTop_SingleSourceFillsByRank(t *testing.T) {
	e := newEngine(t)

	reviews := []review.Review{
		rv(source.Google, 3, "okay", "a", 0.5),
		rv(source.Google, 5, "outstanding", "b", 0.9),
		rv(source.Google, 4, "very good", "c", 0.7),
	}

	top := e.Analyze(reviews, "Solo").TopReviews
	if len(top) != 3 {
		t.Fatalf("top reviews = %d, want 3", len(top))
	}
	if top[0].Rating != 5 || top[1].Rating != 4 || top[2].Rating != 3 {
		t.Errorf("top reviews not in rank order: %v, %v, %v", top[0].Rating, top[1].Rating, top[2].Rating)
	}
}

func TestBalancedTop_SkipsAuthorReposts(t *testing.T) {
	e := newEngine(t)

	text := "Amazing pasta, we come here every single Friday night without fail"
	reviews := []review.Review{
		rv(source.Google, 5, text, "repeat", 0.9),
		rv(source.Yelp, 5, text+" and Saturdays too", "repeat", 0.9),
		rv(source.Google, 4, "Reliably good neighborhood spot", "other", 0.8),
	}

	top := e.Analyze(reviews, "Reposted").TopReviews
	if len(top) != 2 {
		t.Fatalf("top reviews = %d, want repost collapsed to 2", len(top))
	}
}

func TestBalancedTop_AuthenticityBreaksRatingTies(t *testing.T) {
	e := newEngine(t)

	reviews := []review.Review{
		rv(source.Google, 5, "good", "low", 0.3),
		rv(source.Google, 5, "good", "high", 0.9),
	}

	top := e.Analyze(reviews, "Tied").TopReviews
	if len(top) != 2 {
		t.Fatalf("top reviews = %d, want 2", len(top))
	}
	if top[0].Author != "high" {
		t.Errorf("top review author = %q, want the more authentic review first", top[0].Author)
	}
}

func TestConfidence_GrowsWithVolumeAndDiversity(t *testing.T) {
	e := newEngine(t)

	few := e.Analyze([]review.Review{
		rv(source.Google, 4, "nice", "a", 0.6),
		rv(source.Google, 4, "nice place", "b", 0.6),
	}, "Few")

	var many []review.Review
	for i := 0; i < 15; i++ {
		src := source.Google
		if i%2 == 0 {
			src = source.Yelp
		}
		many = append(many, rv(src, 4, "consistently good food here", fmt.Sprintf("u%d", i), 0.8))
	}
	rich := e.Analyze(many, "Many")

	if few.Confidence >= rich.Confidence {
		t.Errorf("confidence did not grow: few=%d rich=%d", few.Confidence, rich.Confidence)
	}
	if rich.Confidence > 100 {
		t.Errorf("confidence = %d, want capped at 100", rich.Confidence)
	}
	if few.SourcesUsed != 1 || rich.SourcesUsed != 2 {
		t.Errorf("sources used = %d/%d, want 1/2", few.SourcesUsed, rich.SourcesUsed)
	}
}

func TestQualityLabel_Buckets(t *testing.T) {
	tests := []struct {
		raw  int
		want analysis.Quality
	}{
		{95, analysis.QualityHigh},
		{80, analysis.QualityHigh},
		{79, analysis.QualityMedium},
		{60, analysis.QualityMedium},
		{59, analysis.QualityLow},
		{35, analysis.QualityLow},
		{34, analysis.QualityVeryLow},
		{0, analysis.QualityVeryLow},
	}
	for _, tt := range tests {
		if got := qualityLabel(tt.raw); got != tt.want {
			t.Errorf("qualityLabel(%d) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAnalyze_ReviewsBySource(t *testing.T) {
	e := newEngine(t)

	got := e.Analyze([]review.Review{
		rv(source.Google, 4, "x", "a", 0.5),
		rv(source.Google, 3, "y", "b", 0.5),
		rv(source.Yelp, 5, "z", "c", 0.5),
	}, "Counted")

	if got.ReviewsBySrc[source.Google] != 2 || got.ReviewsBySrc[source.Yelp] != 1 {
		t.Errorf("reviews by source = %v, want google:2 yelp:1", got.ReviewsBySrc)
	}
	if got.TotalReviews != 3 {
		t.Errorf("total reviews = %d, want 3", got.TotalReviews)
	}
}

func TestAnalyze_UnifiedScoreRounding(t *testing.T) {
	e, err := New(Config{SourceWeights: map[source.Source]float64{
		source.Google: 1.0,
		source.Yelp:   1.0,
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := e.Analyze([]review.Review{
		rv(source.Google, 5, "x", "a", 0.5),
		rv(source.Google, 4, "y", "b", 0.5),
		rv(source.Yelp, 4, "z", "c", 0.5),
	}, "Rounded")

	want := math.Round(13.0/3.0*10) / 10
	if got.UnifiedScore != want {
		t.Errorf("unified score = %v, want %v", got.UnifiedScore, want)
	}
}
