package dinerank

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	discoveryuc "github.com/dinerank/dinerank/internal/usecase/discovery"
	profileuc "github.com/dinerank/dinerank/internal/usecase/profile"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	googleKey     string
	googleBaseURL string
	yelpKey       string
	yelpBaseURL   string
	sourceTimeout time.Duration

	listingSources []discoveryuc.ListingSource
	reviewSources  []profileuc.ReviewSource

	cacheDriver   string // "memory" (default) or "redis"
	cacheAddrs    []string
	cachePassword string
	searchTTL     time.Duration
	analysisTTL   time.Duration

	narrator     profileuc.Narrator
	narrativeKey string
	narrativeURL string
	narrModel    string

	scoreWeights      map[string]float64 // nil = defaults
	matchThreshold    float64
	sourceWeights     map[string]float64
	authenticityFloor float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithGooglePlaces enables the Google Places platform client.
func WithGooglePlaces(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.googleKey = apiKey
	})
}

// WithGooglePlacesURL overrides the Google Places base URL (testing,
// proxies).
func WithGooglePlacesURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.googleBaseURL = baseURL
	})
}

// WithYelp enables the Yelp Fusion platform client.
func WithYelp(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.yelpKey = apiKey
	})
}

// WithYelpURL overrides the Yelp Fusion base URL (testing, proxies).
func WithYelpURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.yelpBaseURL = baseURL
	})
}

// WithSourceTimeout sets the per-request timeout for the platform clients.
// Default: 10s.
func WithSourceTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sourceTimeout = d
	})
}

// WithListingSources adds custom discovery platforms alongside (or instead
// of) the built-in clients.
func WithListingSources(sources ...discoveryuc.ListingSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.listingSources = append(c.listingSources, sources...)
	})
}

// WithReviewSources adds custom review platforms alongside (or instead of)
// the built-in clients.
func WithReviewSources(sources ...profileuc.ReviewSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.reviewSources = append(c.reviewSources, sources...)
	})
}

// WithMemoryCache caches results in process memory (the default).
func WithMemoryCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "memory"
	})
}

// WithRedisCache caches results in a Redis instance.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets the search and analysis result lifetimes.
// Zero keeps the repository defaults (15m search, 1h analysis).
func WithCacheTTL(search, analysis time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTTL = search
		c.analysisTTL = analysis
	})
}

// WithNarrator sets a custom narrative provider for analysis enrichment.
func WithNarrator(n profileuc.Narrator) Option {
	return optionFunc(func(c *clientConfig) {
		c.narrator = n
	})
}

// WithOpenAINarrative enables narrative enrichment via an OpenAI-compatible
// API. baseURL and model may be empty to take the defaults.
func WithOpenAINarrative(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.narrativeKey = apiKey
		c.narrativeURL = baseURL
		c.narrModel = model
	})
}

// WithScoringWeights overrides the seven-factor ranking weight table
// (keyed by factor name; must sum to 1.0).
func WithScoringWeights(weights map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.scoreWeights = weights
	})
}

// WithMatchThreshold overrides the cross-source entity match cutoff (0,1).
func WithMatchThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.matchThreshold = t
	})
}

// WithSourceWeights adjusts per-platform review influence on the unified
// score (keyed by platform name).
func WithSourceWeights(weights map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.sourceWeights = weights
	})
}

// WithAuthenticityFloor drops reviews scored below the floor before
// analysis. Default: 0.3.
func WithAuthenticityFloor(floor float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.authenticityFloor = floor
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
