// Package searchcache persists completed discovery results in a key-value
// store with a TTL. Entries are replaced whole on write; there is no partial
// invalidation.
package searchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/db"
	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/usecase/discovery"
)

var keyPrefix = domain.KeyPrefix + "search:"

// DefaultTTL bounds how stale a served search result can be.
const DefaultTTL = 15 * time.Minute

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repository implements discovery.Cache over a KV store.
type Repository struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a search result cache. ttl <= 0 takes DefaultTTL.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

var _ discovery.Cache = (*Repository)(nil)

// Get returns the cached result for req, or domain.ErrNotFound on a miss.
// A corrupt entry counts as a miss; the next Set overwrites it.
func (r *Repository) Get(ctx context.Context, req *request.Request) (discovery.Result, error) {
	data, err := r.store.Get(ctx, r.key(req))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			r.incCache("miss")
			return discovery.Result{}, domain.ErrNotFound
		}
		return discovery.Result{}, fmt.Errorf("get cached search: %w", err)
	}

	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		r.logger.Warn("Failed to decode cached search result", zap.Error(err))
		r.incCache("miss")
		return discovery.Result{}, domain.ErrNotFound
	}

	r.incCache("hit")
	return fromDTO(dto), nil
}

// Set stores res for req, replacing any previous entry whole.
func (r *Repository) Set(ctx context.Context, req *request.Request, res discovery.Result) error {
	data, err := json.Marshal(toDTO(res))
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, r.key(req), data, r.ttl); err != nil {
		return fmt.Errorf("set cached search: %w", err)
	}
	return nil
}

func (r *Repository) key(req *request.Request) string {
	return keyPrefix + req.CacheKey()
}

func (r *Repository) incCache(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
