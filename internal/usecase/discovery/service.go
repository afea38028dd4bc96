// Package discovery orchestrates a cross-source restaurant search: concurrent
// platform fetches, entity resolution, scoring, insights, and result caching.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/usecase/merge"
	"github.com/dinerank/dinerank/internal/usecase/rank"
)

// Service handles discovery searches end to end.
type Service struct {
	sources []ListingSource
	cache   Cache
	merger  *merge.Engine
	ranker  *rank.Engine
	logger  *zap.Logger
}

// New creates a discovery service. cache may be nil to disable result caching.
func New(sources []ListingSource, cache Cache, merger *merge.Engine, ranker *rank.Engine, logger *zap.Logger) (*Service, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one listing source is required")
	}
	seen := make(map[source.Source]bool, len(sources))
	for _, src := range sources {
		if seen[src.Source()] {
			return nil, fmt.Errorf("duplicate listing source %s", src.Source())
		}
		seen[src.Source()] = true
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sources: sources, cache: cache, merger: merger, ranker: ranker, logger: logger}, nil
}

// Search runs a discovery search. Source failures are absorbed: results are
// assembled from whatever platforms responded, and even a total platform
// outage yields a degraded empty result with a message, never an error.
func (s *Service) Search(ctx context.Context, req *request.Request) (Result, error) {
	if cached, ok := s.fromCache(ctx, req); ok {
		return cached, nil
	}

	fetched, failures := s.fetchAll(ctx, req)
	for _, err := range failures {
		s.logger.Warn("platform fetch failed, continuing with partial results",
			zap.String("query", req.Query()), zap.Error(err))
	}

	merged := s.merger.Merge(fetched[source.Google], fetched[source.Yelp])
	scored := s.ranker.Rank(merged, req)

	res := Result{
		Restaurants:   scored,
		Insights:      buildInsights(scored),
		PlatformsUsed: platformsUsed(fetched),
		Partial:       len(failures) > 0,
	}
	if len(scored) == 0 {
		res.Message = emptyResultMessage
	}
	if len(failures) == len(s.sources) {
		// An outage artifact, not a memo: serve it but never cache it.
		res.Message = platformsDownMessage
		return res, nil
	}

	s.toCache(ctx, req, res)
	return res, nil
}

// fetchAll queries every platform concurrently and partitions the listings by
// source. Failed fetches are collected, not propagated.
func (s *Service) fetchAll(ctx context.Context, req *request.Request) (map[source.Source][]listing.Listing, []error) {
	type fetch struct {
		src      source.Source
		listings []listing.Listing
		err      error
	}

	results := make([]fetch, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src ListingSource) {
			defer wg.Done()
			listings, err := src.Search(ctx, req.Query(), req.Location(), nearPoint(req))
			results[i] = fetch{src: src.Source(), listings: listings, err: err}
		}(i, src)
	}
	wg.Wait()

	fetched := make(map[source.Source][]listing.Listing, len(s.sources))
	var failures []error
	for _, f := range results {
		if f.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", f.src, f.err))
			continue
		}
		fetched[f.src] = f.listings
	}
	return fetched, failures
}

func nearPoint(req *request.Request) *geo.Point {
	if p, ok := req.Near(); ok {
		return &p
	}
	return nil
}

// platformsUsed lists the sources that responded without error, including
// those that matched nothing. "Empty" and "failed" are different outcomes.
func platformsUsed(fetched map[source.Source][]listing.Listing) []source.Source {
	used := make([]source.Source, 0, len(fetched))
	for _, src := range source.All() {
		if _, ok := fetched[src]; ok {
			used = append(used, src)
		}
	}
	return used
}

func (s *Service) fromCache(ctx context.Context, req *request.Request) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	res, err := s.cache.Get(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("search cache read failed", zap.Error(err))
		}
		return Result{}, false
	}
	res.Cached = true
	return res, true
}

func (s *Service) toCache(ctx context.Context, req *request.Request, res Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, req, res); err != nil {
		s.logger.Warn("search cache write failed", zap.Error(err))
	}
}
