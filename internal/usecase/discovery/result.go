package discovery

import (
	"math"

	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// Result is the complete outcome of one discovery search. It is the unit the
// result cache stores and replaces whole.
type Result struct {
	Restaurants   []restaurant.Scored
	Insights      Insights
	PlatformsUsed []source.Source
	// Partial marks results assembled while at least one platform was
	// unavailable. Partial results are still served, never cached as
	// complete truth beyond their normal TTL.
	Partial bool
	// Cached is set on cache hits only; it is never persisted.
	Cached bool
	// Message explains an empty result set to the caller.
	Message string
}

// emptyResultMessage is returned when every responding platform came back
// with nothing matching the request. platformsDownMessage replaces it when
// no platform responded at all.
const (
	emptyResultMessage   = "No restaurants found matching your criteria."
	platformsDownMessage = "Restaurant platforms are temporarily unavailable. Please try again shortly."
)

// Insights aggregates the returned result set for the caller: distributions
// over price, cuisine, and features, plus overall rating and verification
// figures.
type Insights struct {
	Total           int            `json:"total"`
	AverageRating   float64        `json:"average_rating"`
	VerifiedPercent float64        `json:"verified_percent"`
	ByPrice         map[string]int `json:"by_price"`
	ByCuisine       map[string]int `json:"by_cuisine"`
	ByFeature       map[string]int `json:"by_feature"`
}

func buildInsights(scored []restaurant.Scored) Insights {
	ins := Insights{
		Total:     len(scored),
		ByPrice:   map[string]int{},
		ByCuisine: map[string]int{},
		ByFeature: map[string]int{},
	}
	if len(scored) == 0 {
		return ins
	}

	var ratingSum float64
	var rated, verified int
	for i := range scored {
		r := scored[i].Restaurant()
		if rating, ok := r.Rating(); ok {
			ratingSum += rating
			rated++
		}
		if r.CrossSourceVerified() {
			verified++
		}
		if label := r.PriceLabel(); label != "" {
			ins.ByPrice[label]++
		}
		if cuisine := r.Cuisine(); cuisine != "" {
			ins.ByCuisine[cuisine]++
		}
		for _, f := range r.Features() {
			ins.ByFeature[f]++
		}
	}
	if rated > 0 {
		ins.AverageRating = math.Round(ratingSum/float64(rated)*10) / 10
	}
	ins.VerifiedPercent = math.Round(float64(verified)/float64(len(scored))*1000) / 10
	return ins
}
