package dinerank

import (
	"context"
	"fmt"
	"time"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/search/order"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	discoveryuc "github.com/dinerank/dinerank/internal/usecase/discovery"
)

// Search discovers, merges and ranks restaurants across the configured
// platforms.
func (c *Client) Search(ctx context.Context, q SearchQuery) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var near *geo.Point
	if q.Near != nil {
		near = &geo.Point{Lat: q.Near.Lat, Lon: q.Near.Lon}
	}
	req, err := request.New(
		q.Query, q.Location, near, order.Order(q.Sort),
		request.Filters{
			MaxPriceTier: q.Filters.MaxPriceTier,
			MinRating:    q.Filters.MinRating,
			Cuisine:      q.Filters.Cuisine,
		},
		q.Limit,
	)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	res, err := c.discoverySvc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return toSearchResult(res), nil
}

func toSearchResult(res discoveryuc.Result) SearchResult {
	out := SearchResult{
		Restaurants: make([]Restaurant, 0, len(res.Restaurants)),
		Insights: Insights{
			Total:           res.Insights.Total,
			AverageRating:   res.Insights.AverageRating,
			VerifiedPercent: res.Insights.VerifiedPercent,
			ByPrice:         res.Insights.ByPrice,
			ByCuisine:       res.Insights.ByCuisine,
			ByFeature:       res.Insights.ByFeature,
		},
		Partial: res.Partial,
		Cached:  res.Cached,
		Message: res.Message,
	}
	for _, src := range res.PlatformsUsed {
		out.PlatformsUsed = append(out.PlatformsUsed, string(src))
	}
	for i := range res.Restaurants {
		out.Restaurants = append(out.Restaurants, toRestaurant(&res.Restaurants[i]))
	}
	return out
}

func toRestaurant(s *restaurant.Scored) Restaurant {
	r := s.Restaurant()
	v := s.Vector()
	out := Restaurant{
		ID:           r.ID(),
		Name:         r.Name(),
		Address:      r.Address(),
		ImageURL:     r.ImageURL(),
		TotalReviews: r.TotalReviews(),
		PriceLabel:   r.PriceLabel(),
		Cuisine:      r.Cuisine(),
		Features:     r.Features(),
		Verified:     r.CrossSourceVerified(),
		Consistency:  r.PlatformConsistency(),
		Score:        s.Composite(),
		Factors: ScoreFactors{
			Rating:      v.Rating,
			Volume:      v.Volume,
			Recency:     v.Recency,
			Consistency: v.Consistency,
			PriceValue:  v.PriceValue,
			Distance:    v.Distance,
			Uniqueness:  v.Uniqueness,
		},
		Reasons: s.Reasons(),
	}
	if coord, ok := r.Coordinate(); ok {
		out.Coordinate = &LatLon{Lat: coord.Lat, Lon: coord.Lon}
	}
	if rating, ok := r.Rating(); ok {
		out.Rating = &rating
	}
	if tier, ok := r.PriceTier(); ok {
		out.PriceTier = &tier
	}
	for _, src := range r.Sources() {
		if l, ok := r.SourceListing(src); ok {
			out.Sources = append(out.Sources, toSourceListing(&l))
		}
	}
	return out
}

func toSourceListing(l *listing.Listing) SourceListing {
	out := SourceListing{
		Platform:    string(l.Source()),
		ID:          l.ID(),
		ReviewCount: l.ReviewCount(),
	}
	if rating, ok := l.Rating(); ok {
		out.Rating = &rating
	}
	return out
}
