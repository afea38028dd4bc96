package analysiscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/db"
	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data    map[string][]byte
	lastTTL time.Duration
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func testRequest(t *testing.T) *analysis.Request {
	t.Helper()
	req, err := analysis.NewRequest("g1", "y1", "Luigi's Trattoria")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &req
}

func TestRepository_RoundTrip(t *testing.T) {
	ms := newMockKVStore()
	repo := New(ms, time.Minute, nil, zap.NewNop())
	req := testRequest(t)

	want := analysis.Result{
		DisplayName:  "Luigi's Trattoria",
		UnifiedScore: 4.4,
		TotalReviews: 42,
		Confidence:   87,
		Sentiment:    analysis.Distribution{Positive: 70, Neutral: 20, Negative: 10},
		Trend:        analysis.Improving,
		SourcesUsed:  2,
		Quality:      analysis.QualityHigh,
		ReviewsBySrc: map[source.Source]int{source.Google: 30, source.Yelp: 12},
		Narrative:    &analysis.Narrative{Summary: "A beloved local spot.", Highlights: []string{"pasta"}},
		TopReviews: []analysis.TopReview{
			{Source: source.Yelp, Rating: 5, Text: "Wonderful", Author: "a", Authenticity: 0.9},
		},
	}

	if err := repo.Set(context.Background(), req, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := repo.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.UnifiedScore != want.UnifiedScore || got.Confidence != want.Confidence {
		t.Errorf("score/confidence = %v/%d, want %v/%d", got.UnifiedScore, got.Confidence, want.UnifiedScore, want.Confidence)
	}
	if got.Trend != analysis.Improving || got.Quality != analysis.QualityHigh {
		t.Errorf("trend/quality = %q/%q, want improving/high", got.Trend, got.Quality)
	}
	if got.ReviewsBySrc[source.Google] != 30 {
		t.Errorf("reviews by source lost: %v", got.ReviewsBySrc)
	}
	if got.Narrative == nil || got.Narrative.Summary != want.Narrative.Summary {
		t.Errorf("narrative lost in round trip: %+v", got.Narrative)
	}
	if len(got.TopReviews) != 1 || got.TopReviews[0].Source != source.Yelp {
		t.Errorf("top reviews lost in round trip: %+v", got.TopReviews)
	}
}

func TestRepository_MissReturnsNotFound(t *testing.T) {
	repo := New(newMockKVStore(), time.Minute, nil, zap.NewNop())

	_, err := repo.Get(context.Background(), testRequest(t))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRepository_CorruptEntryIsMiss(t *testing.T) {
	ms := newMockKVStore()
	repo := New(ms, time.Minute, nil, zap.NewNop())
	req := testRequest(t)
	ms.data[keyPrefix+req.CacheKey()] = []byte("][")

	_, err := repo.Get(context.Background(), req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want corrupt entry treated as miss", err)
	}
}

func TestRepository_DefaultTTL(t *testing.T) {
	ms := newMockKVStore()
	repo := New(ms, 0, nil, zap.NewNop())

	if err := repo.Set(context.Background(), testRequest(t), analysis.Result{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ms.lastTTL != DefaultTTL {
		t.Errorf("ttl = %v, want default %v", ms.lastTTL, DefaultTTL)
	}
}
