package dinerank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dinerank/dinerank/internal/db"
	dbMem "github.com/dinerank/dinerank/internal/db/mem"
	dbRedis "github.com/dinerank/dinerank/internal/db/redis"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/repository/analysiscache"
	"github.com/dinerank/dinerank/internal/repository/narrcache"
	"github.com/dinerank/dinerank/internal/repository/searchcache"
	"github.com/dinerank/dinerank/internal/transport/googleplaces"
	openaiNarr "github.com/dinerank/dinerank/internal/transport/openai"
	"github.com/dinerank/dinerank/internal/transport/yelp"
	discoveryuc "github.com/dinerank/dinerank/internal/usecase/discovery"
	healthuc "github.com/dinerank/dinerank/internal/usecase/health"
	mergeuc "github.com/dinerank/dinerank/internal/usecase/merge"
	profileuc "github.com/dinerank/dinerank/internal/usecase/profile"
	rankuc "github.com/dinerank/dinerank/internal/usecase/rank"
	reviewuc "github.com/dinerank/dinerank/internal/usecase/review"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for test substitution.
type discoveryUseCase interface {
	Search(ctx context.Context, req *request.Request) (discoveryuc.Result, error)
}

type profileUseCase interface {
	Analyze(ctx context.Context, req *analysis.Request) (analysis.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the dinerank SDK entry point.
type Client struct {
	store        db.Store
	discoverySvc discoveryUseCase
	profileSvc   profileUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a dinerank Client. The provided context bounds the cache
// store readiness check. At least one platform must be configured, either
// a built-in client via WithGooglePlaces/WithYelp or a custom one via
// WithListingSources.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheDriver: "memory",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dinerank: cache store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "memory":
		return dbMem.NewStore(), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("dinerank: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("dinerank: unknown cache driver %q", cfg.cacheDriver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	listingSources := cfg.listingSources
	reviewSources := cfg.reviewSources
	var sourceCheckers []healthuc.SourceChecker
	for _, s := range listingSources {
		if hc, ok := s.(healthuc.SourceChecker); ok {
			sourceCheckers = append(sourceCheckers, hc)
		}
	}

	if cfg.googleKey != "" {
		google := googleplaces.New(&googleplaces.Config{
			APIKey:  cfg.googleKey,
			BaseURL: cfg.googleBaseURL,
			Timeout: cfg.sourceTimeout,
		})
		listingSources = append(listingSources, google)
		reviewSources = append(reviewSources, google)
		sourceCheckers = append(sourceCheckers, google)
	}
	if cfg.yelpKey != "" {
		yelpClient := yelp.New(&yelp.Config{
			APIKey:  cfg.yelpKey,
			BaseURL: cfg.yelpBaseURL,
			Timeout: cfg.sourceTimeout,
		})
		listingSources = append(listingSources, yelpClient)
		reviewSources = append(reviewSources, yelpClient)
		sourceCheckers = append(sourceCheckers, yelpClient)
	}
	if len(listingSources) == 0 {
		return nil, errors.New(
			"dinerank: at least one platform required (use WithGooglePlaces, WithYelp or WithListingSources)",
		)
	}

	merger, err := mergeuc.New(mergeuc.Config{Threshold: cfg.matchThreshold})
	if err != nil {
		return nil, fmt.Errorf("dinerank: %w", err)
	}
	weights, err := scoringWeights(cfg.scoreWeights)
	if err != nil {
		return nil, err
	}
	ranker, err := rankuc.New(weights, nil)
	if err != nil {
		return nil, fmt.Errorf("dinerank: %w", err)
	}
	engine, err := reviewuc.New(reviewuc.Config{
		SourceWeights: sourceWeights(cfg.sourceWeights),
	})
	if err != nil {
		return nil, fmt.Errorf("dinerank: %w", err)
	}

	searchCache := searchcache.New(store, cfg.searchTTL, nil, nil)
	analysisCache := analysiscache.New(store, cfg.analysisTTL, nil, nil)

	narrator := cfg.narrator
	if narrator == nil && cfg.narrativeKey != "" {
		base := openaiNarr.NewNarrator(&openaiNarr.Config{
			APIKey:  cfg.narrativeKey,
			BaseURL: cfg.narrativeURL,
			Model:   cfg.narrModel,
		})
		narrator = narrcache.New(base, store, nil, nil)
	}

	discoverySvc, err := discoveryuc.New(listingSources, searchCache, merger, ranker, nil)
	if err != nil {
		return nil, fmt.Errorf("dinerank: %w", err)
	}

	// Analysis is available only when at least one review source exists.
	var profileSvc profileUseCase
	if len(reviewSources) > 0 {
		svc, err := profileuc.New(
			reviewSources, analysisCache, engine, narrator,
			profileuc.Config{AuthenticityFloor: cfg.authenticityFloor},
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("dinerank: %w", err)
		}
		profileSvc = svc
	}

	healthSvc := healthuc.New(store, sourceCheckers, nil)

	return &Client{
		store:        store,
		discoverySvc: discoverySvc,
		profileSvc:   profileSvc,
		healthSvc:    healthSvc,
		obs:          obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks cache store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// scoringWeights converts the factor-name weight map to the domain table.
func scoringWeights(m map[string]float64) (score.Weights, error) {
	if len(m) == 0 {
		return score.DefaultWeights(), nil
	}
	w := score.Weights{}
	for name, v := range m {
		switch name {
		case "rating":
			w.Rating = v
		case "volume":
			w.Volume = v
		case "recency":
			w.Recency = v
		case "consistency":
			w.Consistency = v
		case "price_value":
			w.PriceValue = v
		case "distance":
			w.Distance = v
		case "uniqueness":
			w.Uniqueness = v
		default:
			return score.Weights{}, fmt.Errorf("dinerank: unknown scoring factor %q", name)
		}
	}
	return w, nil
}

// sourceWeights converts the platform weight map to domain source keys.
func sourceWeights(m map[string]float64) map[source.Source]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[source.Source]float64, len(m))
	for name, w := range m {
		out[source.Source(name)] = w
	}
	return out
}
