package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/usecase/discovery"
	"github.com/dinerank/dinerank/internal/usecase/health"
	"github.com/dinerank/dinerank/internal/usecase/merge"
	"github.com/dinerank/dinerank/internal/usecase/profile"
	"github.com/dinerank/dinerank/internal/usecase/rank"
	reviewuc "github.com/dinerank/dinerank/internal/usecase/review"
)

// fakeListingSource implements discovery.ListingSource.
type fakeListingSource struct {
	src      source.Source
	listings []listing.Listing
	err      error
}

func (f *fakeListingSource) Source() source.Source { return f.src }

func (f *fakeListingSource) Search(_ context.Context, _, _ string, _ *geo.Point) ([]listing.Listing, error) {
	return f.listings, f.err
}

func (f *fakeListingSource) HealthCheck(_ context.Context) error { return f.err }

// fakeReviewSource implements profile.ReviewSource.
type fakeReviewSource struct {
	src     source.Source
	reviews []review.Review
	err     error
}

func (f *fakeReviewSource) Source() source.Source { return f.src }

func (f *fakeReviewSource) Reviews(_ context.Context, _ string) ([]review.Review, error) {
	return f.reviews, f.err
}

// missSearchCache always misses.
type missSearchCache struct{}

func (missSearchCache) Get(_ context.Context, _ *request.Request) (discovery.Result, error) {
	return discovery.Result{}, domain.ErrNotFound
}

func (missSearchCache) Set(_ context.Context, _ *request.Request, _ discovery.Result) error {
	return nil
}

type missAnalysisCache struct{}

func (missAnalysisCache) Get(_ context.Context, _ *analysis.Request) (analysis.Result, error) {
	return analysis.Result{}, domain.ErrNotFound
}

func (missAnalysisCache) Set(_ context.Context, _ *analysis.Request, _ analysis.Result) error {
	return nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func mkListing(t *testing.T, src source.Source, id, name, address string, rating float64, reviews int) listing.Listing {
	t.Helper()
	l, err := listing.New(listing.Params{
		ID:          id,
		Source:      src,
		Name:        name,
		Address:     address,
		Rating:      &rating,
		ReviewCount: reviews,
		Operational: true,
	})
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	return l
}

func mkReview(t *testing.T, src source.Source, rating float64, text, author string) review.Review {
	t.Helper()
	r, err := review.New(review.Params{
		Source: src,
		Rating: rating,
		Text:   text,
		Author: author,
	})
	if err != nil {
		t.Fatalf("review.New: %v", err)
	}
	return r
}

// newTestServer wires real services over fake platform clients.
func newTestServer(t *testing.T, google, yelp *fakeListingSource, reviews []profile.ReviewSource, cacheErr error) *Server {
	t.Helper()
	logger := zap.NewNop()

	merger, err := merge.New(merge.Config{})
	if err != nil {
		t.Fatalf("merge.New: %v", err)
	}
	ranker, err := rank.New(score.DefaultWeights(), logger)
	if err != nil {
		t.Fatalf("rank.New: %v", err)
	}
	discoverySvc, err := discovery.New(
		[]discovery.ListingSource{google, yelp},
		missSearchCache{}, merger, ranker, logger,
	)
	if err != nil {
		t.Fatalf("discovery.New: %v", err)
	}

	engine, err := reviewuc.New(reviewuc.Config{})
	if err != nil {
		t.Fatalf("review.New: %v", err)
	}
	if len(reviews) == 0 {
		reviews = []profile.ReviewSource{
			&fakeReviewSource{src: source.Google},
			&fakeReviewSource{src: source.Yelp},
		}
	}
	profileSvc, err := profile.New(reviews, missAnalysisCache{}, engine, nil, profile.Config{}, logger)
	if err != nil {
		t.Fatalf("profile.New: %v", err)
	}

	healthSvc := health.New(
		&fakePinger{err: cacheErr},
		[]health.SourceChecker{google, yelp},
		nil,
	)

	return NewServer(discoverySvc, profileSvc, healthSvc, logger)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	google := &fakeListingSource{src: source.Google, listings: []listing.Listing{
		mkListing(t, source.Google, "g1", "Luigi's Trattoria", "12 Main St", 4.5, 120),
	}}
	yelp := &fakeListingSource{src: source.Yelp, listings: []listing.Listing{
		mkListing(t, source.Yelp, "y1", "Luigis Trattoria", "12 Main St", 4.3, 80),
	}}
	router := newTestServer(t, google, yelp, nil, nil).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/search", searchRequestPayload{
		Query:    "pasta",
		Location: "Brooklyn",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res searchResponsePayload
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Total != 1 || len(res.Restaurants) != 1 {
		t.Fatalf("expected 1 merged restaurant, got total=%d len=%d", res.Total, len(res.Restaurants))
	}
	r := res.Restaurants[0]
	if !r.Verified {
		t.Error("expected cross-source verified restaurant")
	}
	if len(r.Sources) != 2 {
		t.Errorf("expected 2 source listings, got %d", len(r.Sources))
	}
	if r.Score <= 0 {
		t.Errorf("expected positive composite score, got %v", r.Score)
	}
	if len(res.PlatformsUsed) != 2 {
		t.Errorf("expected both platforms used, got %v", res.PlatformsUsed)
	}
	if res.Partial {
		t.Error("both platforms succeeded, result must not be partial")
	}
}

func TestSearchEndpointInvalidBody(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var er errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Code != codeBadRequest {
		t.Errorf("expected code %q, got %q", codeBadRequest, er.Code)
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/search", searchRequestPayload{
		Query:    "x",
		Location: "Brooklyn",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var er errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Code != codeValidationFailed {
		t.Errorf("expected code %q, got %q", codeValidationFailed, er.Code)
	}
}

func TestSearchEndpointUnknownSort(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/search", searchRequestPayload{
		Query:    "pasta",
		Location: "Brooklyn",
		Sort:     "by_vibes",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", rec.Code)
	}
}

func TestSearchEndpointAllPlatformsDown(t *testing.T) {
	down := errors.New("connection refused")
	router := newTestServer(t,
		&fakeListingSource{src: source.Google, err: down},
		&fakeListingSource{src: source.Yelp, err: down},
		nil, nil,
	).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/search", searchRequestPayload{
		Query:    "pasta",
		Location: "Brooklyn",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp searchResponsePayload
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want empty degraded result", resp.Total)
	}
	if !resp.Partial {
		t.Error("expected partial flag during a total outage")
	}
	if resp.Message == "" {
		t.Error("expected explanatory message during a total outage")
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	reviews := []profile.ReviewSource{
		&fakeReviewSource{src: source.Google, reviews: []review.Review{
			mkReview(t, source.Google, 5, "The pasta was incredible and the service fast.", "alice"),
			mkReview(t, source.Google, 4, "Great food, cozy atmosphere.", "bob"),
		}},
		&fakeReviewSource{src: source.Yelp, reviews: []review.Review{
			mkReview(t, source.Yelp, 4, "Delicious carbonara, friendly staff.", "carol"),
		}},
	}
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		reviews, nil,
	).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/analysis", analysisRequestPayload{
		GoogleID: "g1",
		YelpID:   "y1",
		Name:     "Luigi's Trattoria",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res analysis.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.TotalReviews != 3 {
		t.Errorf("expected 3 reviews, got %d", res.TotalReviews)
	}
	if res.SourcesUsed != 2 {
		t.Errorf("expected 2 sources used, got %d", res.SourcesUsed)
	}
	if res.UnifiedScore <= 0 {
		t.Errorf("expected positive unified score, got %v", res.UnifiedScore)
	}
	if len(res.Themes) != 4 {
		t.Errorf("expected all 4 theme summaries, got %d", len(res.Themes))
	}
}

func TestAnalysisEndpointValidation(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	// No platform IDs at all.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/analysis", analysisRequestPayload{
		Name: "Luigi's Trattoria",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var er errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Code != codeValidationFailed {
		t.Errorf("expected code %q, got %q", codeValidationFailed, er.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != string(health.Healthy) {
		t.Errorf("expected status %q, got %q", health.Healthy, body.Status)
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, errors.New("redis down"),
	).Router()

	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestServer(t,
		&fakeListingSource{src: source.Google},
		&fakeListingSource{src: source.Yelp},
		nil, nil,
	).Router()

	rec := doRequest(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected prometheus exposition output")
	}
}
