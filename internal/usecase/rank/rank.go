// Package rank implements the multi-factor scoring engine: it turns merged
// restaurants plus a request context into a filtered, scored, reasoned and
// sorted result list.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/search/order"
	"github.com/dinerank/dinerank/internal/domain/search/request"
)

// Engine scores and sorts merged restaurants.
type Engine struct {
	weights score.Weights
	logger  *zap.Logger
}

// New creates a scoring engine. The weight table is validated once here so a
// misconfigured table fails startup instead of skewing every response.
func New(weights score.Weights, logger *zap.Logger) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("score weights: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{weights: weights, logger: logger}, nil
}

// Rank filters, scores, annotates and sorts the given restaurants for one
// request. Non-operational restaurants and those failing a caller filter are
// excluded entirely. Ties keep input order.
func (e *Engine) Rank(restaurants []restaurant.Restaurant, req *request.Request) []restaurant.Scored {
	var near *geo.Point
	if p, ok := req.Near(); ok {
		near = &p
	}

	scored := make([]restaurant.Scored, 0, len(restaurants))
	for i := range restaurants {
		r := &restaurants[i]
		if !e.include(r, req.Filters()) {
			continue
		}

		v := score.Vector{
			Rating:      ratingFactor(r),
			Volume:      volumeFactor(r),
			Recency:     recencyFactor(r),
			Consistency: consistencyFactor(r),
			PriceValue:  priceValueFactor(r),
			Distance:    distanceFactor(r, near),
			Uniqueness:  uniquenessFactor(r, req.Query()),
		}
		if err := v.Validate(); err != nil {
			// Programming error in a factor; clamp but never silently.
			e.logger.Error("factor score out of range",
				zap.String("restaurant", r.ID()), zap.Error(err))
			v = clampVector(v)
		}

		composite := score.Composite(v, e.weights)
		scored = append(scored, restaurant.NewScored(*r, v, composite, reasons(r, v, near != nil)))
	}

	sortScored(scored, req.Sort(), near)

	if len(scored) > req.Limit() {
		scored = scored[:req.Limit()]
	}
	return scored
}

// include applies the operational-status filter and the caller's filters.
// Exclusion, not down-ranking.
func (e *Engine) include(r *restaurant.Restaurant, f request.Filters) bool {
	if !r.Operational() {
		return false
	}
	if f.MaxPriceTier > 0 {
		if tier, ok := r.PriceTier(); ok && tier > f.MaxPriceTier {
			return false
		}
	}
	if f.MinRating > 0 {
		rating, ok := r.Rating()
		if !ok || rating < f.MinRating {
			return false
		}
	}
	if f.Cuisine != "" {
		if !strings.Contains(strings.ToLower(r.Cuisine()), strings.ToLower(f.Cuisine)) {
			return false
		}
	}
	return true
}

// sortScored orders results per the requested mode. Non-smart modes order by
// the named signal with the composite as the tie-breaker; entities missing
// the signal sort last. sort.SliceStable keeps input order on full ties.
func sortScored(s []restaurant.Scored, o order.Order, near *geo.Point) {
	switch o {
	case order.Rating:
		sort.SliceStable(s, func(i, j int) bool {
			ri := s[i].Restaurant()
			rj := s[j].Restaurant()
			a, okA := ri.Rating()
			b, okB := rj.Rating()
			if okA != okB {
				return okA
			}
			if a != b {
				return a > b
			}
			return s[i].Composite() > s[j].Composite()
		})
	case order.Reviews:
		sort.SliceStable(s, func(i, j int) bool {
			ri := s[i].Restaurant()
			rj := s[j].Restaurant()
			if ri.TotalReviews() != rj.TotalReviews() {
				return ri.TotalReviews() > rj.TotalReviews()
			}
			return s[i].Composite() > s[j].Composite()
		})
	case order.Distance:
		sort.SliceStable(s, func(i, j int) bool {
			a, okA := distanceKm(s[i], near)
			b, okB := distanceKm(s[j], near)
			if okA != okB {
				return okA
			}
			if okA && a != b {
				return a < b
			}
			return s[i].Composite() > s[j].Composite()
		})
	default: // order.Smart
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Composite() > s[j].Composite()
		})
	}
}

func distanceKm(s restaurant.Scored, near *geo.Point) (float64, bool) {
	if near == nil {
		return 0, false
	}
	r := s.Restaurant()
	c, ok := r.Coordinate()
	if !ok {
		return 0, false
	}
	return geo.HaversineKm(*near, c), true
}

func clampVector(v score.Vector) score.Vector {
	return score.Vector{
		Rating:      clamp01(v.Rating),
		Volume:      clamp01(v.Volume),
		Recency:     clamp01(v.Recency),
		Consistency: clamp01(v.Consistency),
		PriceValue:  clamp01(v.PriceValue),
		Distance:    clamp01(v.Distance),
		Uniqueness:  clamp01(v.Uniqueness),
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
