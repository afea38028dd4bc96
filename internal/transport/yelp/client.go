// Package yelp is the Yelp Fusion API client. It normalizes Fusion payloads
// into domain listings and reviews.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
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

// DefaultBaseURL is the production Fusion API host.
const DefaultBaseURL = "https://api.yelp.com"

// maxSearchResults is the Fusion per-request result cap.
const maxSearchResults = 50

// Client talks to the Yelp Fusion API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// Config holds the Fusion client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a Fusion client.
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
func (c *Client) Source() source.Source { return source.Yelp }

// Search runs a business search and normalizes the results.
func (c *Client) Search(ctx context.Context, query, location string, near *geo.Point) ([]listing.Listing, error) {
	q := url.Values{}
	q.Set("term", query)
	q.Set("categories", "restaurants")
	q.Set("limit", fmt.Sprintf("%d", maxSearchResults))
	if near != nil {
		q.Set("latitude", fmt.Sprintf("%f", near.Lat))
		q.Set("longitude", fmt.Sprintf("%f", near.Lon))
	} else {
		q.Set("location", location)
	}

	var resp searchResponse
	if err := c.get(ctx, "search", "/v3/businesses/search", q, &resp); err != nil {
		return nil, err
	}

	listings := make([]listing.Listing, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		l, err := toListing(b)
		if err != nil {
			c.logger.Warn("Skipping malformed business",
				zap.String("business_id", b.ID), zap.Error(err))
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// Reviews fetches the reviews of one business.
func (c *Client) Reviews(ctx context.Context, listingID string) ([]review.Review, error) {
	var resp reviewsResponse
	path := "/v3/businesses/" + url.PathEscape(listingID) + "/reviews"
	if err := c.get(ctx, "reviews", path, url.Values{}, &resp); err != nil {
		return nil, err
	}

	reviews := make([]review.Review, 0, len(resp.Reviews))
	for _, yr := range resp.Reviews {
		r, err := toReview(yr)
		if err != nil {
			c.logger.Warn("Skipping malformed review",
				zap.String("business_id", listingID), zap.Error(err))
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// HealthCheck verifies API reachability and credentials.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/businesses/search", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("yelp unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("yelp rejected credentials")
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("yelp returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, operation, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build yelp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	src := string(source.Yelp)
	if err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return fmt.Errorf("yelp %s: %w: %w", operation, domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return parseAPIError(operation, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(src, operation, "error").Inc()
		return fmt.Errorf("decode yelp %s response: %w: %w", operation, domain.ErrSourceUnavailable, err)
	}

	metrics.SourceRequestsTotal.WithLabelValues(src, operation, "success").Inc()
	metrics.SourceRequestDuration.WithLabelValues(src, operation).Observe(duration.Seconds())
	return nil
}

// parseAPIError extracts the Fusion error body. All errors are wrapped with
// domain.ErrSourceUnavailable for correct 502 mapping.
func parseAPIError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Code != "" {
		return fmt.Errorf("yelp %s error %d (%s): %s: %w",
			operation, resp.StatusCode, parsed.Error.Code, parsed.Error.Description, domain.ErrSourceUnavailable)
	}
	return fmt.Errorf("yelp %s returned %d: %w", operation, resp.StatusCode, domain.ErrSourceUnavailable)
}
