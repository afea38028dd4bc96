package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSourceMetrics()
	os.Exit(m.Run())
}

func newTestClient(serverURL string) *Client {
	return New(&Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Logger:  zap.NewNop(),
	})
}

func TestSearch_NormalizesBusinesses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/businesses/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("location") != "New York" {
			t.Errorf("location = %q", r.URL.Query().Get("location"))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"businesses": []map[string]any{
				{
					"id":           "y1",
					"name":         "Luigis Trattoria",
					"rating":       4.5,
					"review_count": 80,
					"price":        "$$",
					"categories":   []map[string]any{{"alias": "restaurants", "title": "Restaurants"}, {"alias": "italian", "title": "Italian"}},
					"coordinates":  map[string]any{"latitude": 40.7194, "longitude": -73.9961},
					"location":     map[string]any{"display_address": []string{"123 Mulberry St", "New York, NY 10013"}},
					"is_closed":    false,
					"image_url":    "https://img.example/y1.jpg",
				},
				{
					"id":        "y2",
					"name":      "Shuttered Diner",
					"rating":    3.0,
					"is_closed": true,
				},
			},
		})
	}))
	defer server.Close()

	listings, err := newTestClient(server.URL).Search(context.Background(), "trattoria", "New York", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}

	l := listings[0]
	if l.ID() != "y1" || l.Name() != "Luigis Trattoria" {
		t.Errorf("listing = %s/%s", l.ID(), l.Name())
	}
	if tier, ok := l.PriceTier(); !ok || tier != 2 {
		t.Errorf("price tier = %v/%v, want $$ mapped to 2", tier, ok)
	}
	if l.Cuisine() != "Italian" {
		t.Errorf("cuisine = %q, want Italian (generic category skipped)", l.Cuisine())
	}
	if l.Address() != "123 Mulberry St, New York, NY 10013" {
		t.Errorf("address = %q", l.Address())
	}
	if listings[1].Operational() {
		t.Error("closed business flagged operational")
	}
}

func TestSearch_NearCoordinateOverridesLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("location") != "" {
			t.Errorf("expected coordinate params, got %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{"businesses": []any{}})
	}))
	defer server.Close()

	near := &geo.Point{Lat: 40.7, Lon: -74.0}
	if _, err := newTestClient(server.URL).Search(context.Background(), "pizza", "ignored", near); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearch_APIErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "RATE_LIMIT", "description": "too many requests"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "pizza", "New York", nil)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestReviews_NormalizesReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/businesses/y1/reviews" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"reviews": []map[string]any{
				{
					"rating":       5,
					"text":         "Homemade pasta that rivals anything in the neighborhood, warm service too.",
					"time_created": "2025-06-01 18:30:00",
					"user":         map[string]any{"name": "Priya", "review_count": 64},
				},
				{
					"rating": 12, // out of range, skipped
					"text":   "broken payload",
					"user":   map[string]any{"name": "x"},
				},
			},
		})
	}))
	defer server.Close()

	reviews, err := newTestClient(server.URL).Reviews(context.Background(), "y1")
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews = %d, want malformed entry skipped", len(reviews))
	}

	r := reviews[0]
	if r.Author() != "Priya" || r.Rating() != 5 {
		t.Errorf("review = %s/%v", r.Author(), r.Rating())
	}
	if n, ok := r.AuthorReviews(); !ok || n != 64 {
		t.Errorf("author reviews = %v/%v, want 64", n, ok)
	}
	if _, ok := r.PostedAt(); !ok {
		t.Error("time_created not parsed")
	}
}

func TestHealthCheck_RejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).HealthCheck(context.Background()); err == nil {
		t.Error("expected error for rejected credentials")
	}
}

func TestHealthCheck_ValidationErrorIsHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Missing params: the API is up, the probe request is just incomplete.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
