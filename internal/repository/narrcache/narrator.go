// Package narrcache is a caching decorator for narrative generation.
// Narratives are the most expensive artifact in the system (an LLM call per
// restaurant), so they are cached independently of the analysis results that
// embed them.
package narrcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/db"
	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/usecase/profile"
)

var cacheKeyPrefix = domain.KeyPrefix + "narr_cache:"

// store is the consumer interface for the narrative cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedNarrator caches generated narratives in a key-value store.
type CachedNarrator struct {
	inner      profile.Narrator
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner profile.Narrator,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedNarrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedNarrator{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

var _ profile.Narrator = (*CachedNarrator)(nil)

// Narrate returns a cached narrative or calls the inner narrator. The key
// digests the analysis facts the prose is built from, so a changed review
// set produces a fresh narrative rather than a stale hit.
func (c *CachedNarrator) Narrate(ctx context.Context, res analysis.Result) (*analysis.Narrative, error) {
	key := c.cacheKey(res)

	if n, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return n, nil
	}

	c.incCache("miss")

	n, err := c.inner.Narrate(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	c.putToCache(ctx, key, n)
	return n, nil
}

func (c *CachedNarrator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedNarrator) cacheKey(res analysis.Result) string {
	digest := fmt.Sprintf("%s|%v|%d|%d|%s|%s",
		res.DisplayName, res.UnifiedScore, res.TotalReviews, res.Confidence, res.Trend, res.Quality)
	h := sha256.Sum256([]byte(digest))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedNarrator) getFromCache(ctx context.Context, key string) (*analysis.Narrative, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached narrative", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var n analysis.Narrative
	if err := json.Unmarshal(data, &n); err != nil {
		c.logger.Warn("Failed to parse cached narrative", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &n, true
}

func (c *CachedNarrator) putToCache(ctx context.Context, key string, n *analysis.Narrative) {
	if n == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		c.logger.Warn("Failed to encode narrative", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache narrative", zap.String("key", key), zap.Error(err))
	}
}
