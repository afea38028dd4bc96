// Package profile orchestrates a cross-source review analysis: concurrent
// review fetches, authenticity filtering, the analysis engine, the optional
// narrative enrichment, and result caching.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	domrev "github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/usecase/review"
)

// DefaultAuthenticityFloor drops reviews scored below it before analysis.
// Keeps obvious spam out of the unified score while letting merely terse
// reviews through.
const DefaultAuthenticityFloor = 0.3

// Config tunes the profile service. Zero values take the defaults.
type Config struct {
	AuthenticityFloor float64
}

// Service handles review analyses end to end.
type Service struct {
	sources  []ReviewSource
	cache    Cache
	engine   *review.Engine
	narrator Narrator
	floor    float64
	logger   *zap.Logger
}

// New creates a profile service. cache and narrator may be nil to disable
// result caching and narrative enrichment respectively.
func New(sources []ReviewSource, cache Cache, engine *review.Engine, narrator Narrator, cfg Config, logger *zap.Logger) (*Service, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one review source is required")
	}
	seen := make(map[source.Source]bool, len(sources))
	for _, src := range sources {
		if seen[src.Source()] {
			return nil, fmt.Errorf("duplicate review source %s", src.Source())
		}
		seen[src.Source()] = true
	}
	if cfg.AuthenticityFloor == 0 {
		cfg.AuthenticityFloor = DefaultAuthenticityFloor
	}
	if cfg.AuthenticityFloor < 0 || cfg.AuthenticityFloor > 1 {
		return nil, fmt.Errorf("authenticity floor %v out of range [0,1]", cfg.AuthenticityFloor)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sources:  sources,
		cache:    cache,
		engine:   engine,
		narrator: narrator,
		floor:    cfg.AuthenticityFloor,
		logger:   logger,
	}, nil
}

// Analyze runs a review analysis. Platforms without an ID in the request are
// skipped; platform failures are absorbed. A listing that exists but has no
// reviews, like a total platform outage, yields the engine's low-confidence
// fallback rather than an error.
func (s *Service) Analyze(ctx context.Context, req *analysis.Request) (analysis.Result, error) {
	if s.cache != nil {
		res, err := s.cache.Get(ctx, req)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("analysis cache read failed", zap.Error(err))
		}
	}

	reviews, attempted, failures := s.fetchAll(ctx, req)
	for _, err := range failures {
		s.logger.Warn("review fetch failed, continuing with partial review set",
			zap.String("restaurant", req.DisplayName()), zap.Error(err))
	}

	res := s.engine.Analyze(s.filterAuthentic(reviews), req.DisplayName())
	res.Narrative = s.narrate(ctx, res)

	if attempted > 0 && len(failures) == attempted {
		// An outage artifact, not a memo: serve the fallback but never cache it.
		return res, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, req, res); err != nil {
			s.logger.Warn("analysis cache write failed", zap.Error(err))
		}
	}
	return res, nil
}

// fetchAll queries every platform that has a listing ID concurrently.
// Returns the combined reviews, how many platforms were attempted, and the
// per-platform failures.
func (s *Service) fetchAll(ctx context.Context, req *analysis.Request) ([]domrev.Review, int, []error) {
	type fetch struct {
		src     source.Source
		reviews []domrev.Review
		err     error
		skipped bool
	}

	results := make([]fetch, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		id := listingID(req, src.Source())
		if id == "" {
			results[i] = fetch{src: src.Source(), skipped: true}
			continue
		}
		wg.Add(1)
		go func(i int, src ReviewSource, id string) {
			defer wg.Done()
			reviews, err := src.Reviews(ctx, id)
			results[i] = fetch{src: src.Source(), reviews: reviews, err: err}
		}(i, src, id)
	}
	wg.Wait()

	var (
		combined  []domrev.Review
		attempted int
		failures  []error
	)
	for _, f := range results {
		if f.skipped {
			continue
		}
		attempted++
		if f.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", f.src, f.err))
			continue
		}
		combined = append(combined, f.reviews...)
	}
	return combined, attempted, failures
}

func listingID(req *analysis.Request, src source.Source) string {
	switch src {
	case source.Google:
		return req.GoogleID()
	case source.Yelp:
		return req.YelpID()
	default:
		return ""
	}
}

// filterAuthentic drops reviews below the authenticity floor before the
// engine sees them.
func (s *Service) filterAuthentic(reviews []domrev.Review) []domrev.Review {
	kept := reviews[:0]
	for i := range reviews {
		if reviews[i].Authenticity() >= s.floor {
			kept = append(kept, reviews[i])
		}
	}
	return kept
}

// narrate runs the optional narrator. Narration is an enrichment: any failure
// is logged and the analysis ships without it.
func (s *Service) narrate(ctx context.Context, res analysis.Result) *analysis.Narrative {
	if s.narrator == nil || res.TotalReviews == 0 {
		return nil
	}
	narrative, err := s.narrator.Narrate(ctx, res)
	if err != nil {
		s.logger.Warn("narrative generation failed",
			zap.String("restaurant", res.DisplayName), zap.Error(err))
		return nil
	}
	return narrative
}
