// Package googleplaces is the Google Places API client. It normalizes Places
// payloads into domain listings and reviews.
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/metrics"
)

// DefaultBaseURL is the production Places API host.
const DefaultBaseURL = "https://maps.googleapis.com"

// defaultNearRadiusMeters biases text search around the caller's coordinate.
const defaultNearRadiusMeters = 5000

// Client talks to the Google Places API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// Config holds the Places client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a Places client.
func New(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Source returns the platform tag.
func (c *Client) Source() source.Source { return source.Google }

// Search runs a Places text search and normalizes the results. Zero results
// is a successful empty response, not an error.
func (c *Client) Search(ctx context.Context, query, location string, near *geo.Point) ([]listing.Listing, error) {
	q := url.Values{}
	q.Set("query", query+" restaurant in "+location)
	q.Set("key", c.apiKey)
	if near != nil {
		q.Set("location", fmt.Sprintf("%f,%f", near.Lat, near.Lon))
		q.Set("radius", fmt.Sprintf("%d", defaultNearRadiusMeters))
	}

	var resp textSearchResponse
	if err := c.get(ctx, "search", "/maps/api/place/textsearch/json", q, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(string(source.Google), "search", "error").Inc()
		return nil, err
	}

	listings := make([]listing.Listing, 0, len(resp.Results))
	for _, p := range resp.Results {
		l, err := toListing(p)
		if err != nil {
			c.logger.Warn("Skipping malformed place",
				zap.String("place_id", p.PlaceID), zap.Error(err))
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// Reviews fetches the reviews of one place via the details endpoint.
func (c *Client) Reviews(ctx context.Context, listingID string) ([]review.Review, error) {
	q := url.Values{}
	q.Set("place_id", listingID)
	q.Set("fields", "reviews")
	q.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.get(ctx, "reviews", "/maps/api/place/details/json", q, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(string(source.Google), "reviews", "error").Inc()
		return nil, err
	}

	reviews := make([]review.Review, 0, len(resp.Result.Reviews))
	for _, pr := range resp.Result.Reviews {
		r, err := toReview(pr)
		if err != nil {
			c.logger.Warn("Skipping malformed review",
				zap.String("place_id", listingID), zap.Error(err))
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// HealthCheck verifies API reachability without spending search quota.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/maps/api/place/textsearch/json", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("places returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, operation, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	src := string(source.Google)
	if err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return fmt.Errorf("places %s: %w: %w", operation, domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return fmt.Errorf("places %s returned %d: %w", operation, resp.StatusCode, domain.ErrSourceUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return fmt.Errorf("decode places %s response: %w: %w", operation, domain.ErrSourceUnavailable, err)
	}

	metrics.SourceRequestsTotal.WithLabelValues(src, operation, "success").Inc()
	metrics.SourceRequestDuration.WithLabelValues(src, operation).Observe(duration.Seconds())
	return nil
}

// checkStatus maps the Places API status field. ZERO_RESULTS is success.
func checkStatus(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		if message != "" {
			return fmt.Errorf("places status %s: %s: %w", status, message, domain.ErrSourceUnavailable)
		}
		return fmt.Errorf("places status %s: %w", status, domain.ErrSourceUnavailable)
	}
}
