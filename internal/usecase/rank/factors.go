package rank

import (
	"math"
	"strings"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/similarity"
	"github.com/dinerank/dinerank/internal/usecase/merge"
)

// Factor constants. Bonuses and penalties on the rating factor are kept
// small (at most 10%) so volume and consistency retain distinguishing power.
const (
	neutralRating      = 0.5 // missing rating
	verifiedBonus      = 1.1
	chainPenalty       = 0.9
	volumeFloor        = 0.1 // zero reviews still rank, just low
	volumeCeilingLog   = 3.0 // ~1000 combined reviews approaches 1.0
	recencyBase        = 0.6
	recencyOperational = 0.2
	consistencyDefault = 0.8 // single-source entities
	neutralPriceValue  = 0.5 // missing rating or tier
	thinRatingFactor   = 0.8 // fewer than 10 reviews behind the rating
	neutralDistance    = 0.3 // no caller coordinate
	uniquenessBase     = 0.3
	queryMatchBonus    = 0.15
)

// uniquenessTagBonus maps derived feature tags to uniqueness adjustments.
var uniquenessTagBonus = map[string]float64{
	merge.TagHiddenGem:      0.2,
	merge.TagChefDriven:     0.15,
	merge.TagCraftCocktails: 0.1,
	merge.TagGreatValue:     0.05,
	merge.TagChain:          -0.2,
}

// ratingFactor maps the blended platform rating onto [0,1], with a small
// bonus for cross-verified entities and a small penalty for large chains.
func ratingFactor(r *restaurant.Restaurant) float64 {
	rating, ok := r.Rating()
	if !ok {
		return neutralRating
	}
	f := clamp01((rating - 1) / 4)
	if r.CrossSourceVerified() {
		f *= verifiedBonus
	}
	if r.HasFeature(merge.TagChain) {
		f *= chainPenalty
	}
	return clamp01(f)
}

// volumeFactor scales logarithmically with combined review count.
func volumeFactor(r *restaurant.Restaurant) float64 {
	f := math.Log10(float64(r.TotalReviews())+1) / volumeCeilingLog
	if f < volumeFloor {
		return volumeFloor
	}
	return clamp01(f)
}

// recencyFactor is a heuristic stand-in until review timestamps reach the
// listing path: confirmed-operational listings read as fresher signal.
func recencyFactor(r *restaurant.Restaurant) float64 {
	f := recencyBase
	if r.Operational() {
		f += recencyOperational
	}
	return f
}

func consistencyFactor(r *restaurant.Restaurant) float64 {
	if r.CrossSourceVerified() {
		return r.PlatformConsistency()
	}
	return consistencyDefault
}

// priceValueFactor rewards high rating at a low price tier. A rating backed
// by few reviews is trusted less.
func priceValueFactor(r *restaurant.Restaurant) float64 {
	rating, okRating := r.Rating()
	tier, okTier := r.PriceTier()
	if !okRating || !okTier {
		return neutralPriceValue
	}
	f := clamp01((rating/float64(tier) - 0.25) / 4.75)
	if r.TotalReviews() < 10 {
		f *= thinRatingFactor
	}
	return f
}

// distanceFactor maps the haversine distance from the caller onto a step
// scale. Without a caller coordinate (or a restaurant one) it stays neutral.
func distanceFactor(r *restaurant.Restaurant, near *geo.Point) float64 {
	if near == nil {
		return neutralDistance
	}
	c, ok := r.Coordinate()
	if !ok {
		return neutralDistance
	}
	switch km := geo.HaversineKm(*near, c); {
	case km <= 1:
		return 1.0
	case km <= 3:
		return 0.8
	case km <= 5:
		return 0.6
	case km <= 10:
		return 0.3
	default:
		return 0.1
	}
}

// uniquenessFactor rewards distinctive feature tags and query relevance.
func uniquenessFactor(r *restaurant.Restaurant, query string) float64 {
	f := uniquenessBase
	for _, tag := range r.Features() {
		f += uniquenessTagBonus[tag]
	}

	haystack := similarity.Normalize(r.Name() + " " + r.Cuisine())
	for _, term := range strings.Fields(similarity.Normalize(query)) {
		if strings.Contains(haystack, term) {
			f += queryMatchBonus
			break
		}
	}
	return clamp01(f)
}
