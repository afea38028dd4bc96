// Package analysiscache persists completed review analyses in a key-value
// store with a TTL. Entries are replaced whole on write.
package analysiscache

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
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/usecase/profile"
)

var keyPrefix = domain.KeyPrefix + "analysis:"

// DefaultTTL bounds how stale a served analysis can be. Analyses move slower
// than search results, so the default is longer.
const DefaultTTL = time.Hour

// store is the consumer interface for the analysis cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repository implements profile.Cache over a KV store. analysis.Result is a
// plain exported-field struct, so it is stored as-is without a DTO layer.
type Repository struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an analysis result cache. ttl <= 0 takes DefaultTTL.
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

var _ profile.Cache = (*Repository)(nil)

// Get returns the cached analysis for req, or domain.ErrNotFound on a miss.
// A corrupt entry counts as a miss; the next Set overwrites it.
func (r *Repository) Get(ctx context.Context, req *analysis.Request) (analysis.Result, error) {
	data, err := r.store.Get(ctx, r.key(req))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			r.incCache("miss")
			return analysis.Result{}, domain.ErrNotFound
		}
		return analysis.Result{}, fmt.Errorf("get cached analysis: %w", err)
	}

	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.Warn("Failed to decode cached analysis", zap.Error(err))
		r.incCache("miss")
		return analysis.Result{}, domain.ErrNotFound
	}

	r.incCache("hit")
	return res, nil
}

// Set stores res for req, replacing any previous entry whole.
func (r *Repository) Set(ctx context.Context, req *analysis.Request, res analysis.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, r.key(req), data, r.ttl); err != nil {
		return fmt.Errorf("set cached analysis: %w", err)
	}
	return nil
}

func (r *Repository) key(req *analysis.Request) string {
	return keyPrefix + req.CacheKey()
}

func (r *Repository) incCache(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
