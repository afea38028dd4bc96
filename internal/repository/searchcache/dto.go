package searchcache

import (
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/usecase/discovery"
)

// Cache payload DTOs. Domain value objects keep their fields unexported, so
// the cache stores flat mirrors and rehydrates via Reconstruct.

type resultDTO struct {
	Restaurants   []scoredDTO        `json:"restaurants"`
	Insights      discovery.Insights `json:"insights"`
	PlatformsUsed []source.Source    `json:"platforms_used"`
	Partial       bool               `json:"partial,omitempty"`
	Message       string             `json:"message,omitempty"`
}

type scoredDTO struct {
	Restaurant restaurantDTO `json:"restaurant"`
	Vector     score.Vector  `json:"vector"`
	Composite  float64       `json:"composite"`
	Reasons    []string      `json:"reasons,omitempty"`
}

type restaurantDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	Coordinate  *pointDTO   `json:"coordinate,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	Google      *listingDTO `json:"google,omitempty"`
	Yelp        *listingDTO `json:"yelp,omitempty"`
	Verified    bool        `json:"verified"`
	Consistency float64     `json:"consistency"`
	Cuisine     string      `json:"cuisine,omitempty"`
	PriceLabel  string      `json:"price_label,omitempty"`
	Features    []string    `json:"features,omitempty"`
}

type listingDTO struct {
	ID          string        `json:"id"`
	Source      source.Source `json:"source"`
	Name        string        `json:"name"`
	Address     string        `json:"address,omitempty"`
	Coordinate  *pointDTO     `json:"coordinate,omitempty"`
	Rating      *float64      `json:"rating,omitempty"`
	ReviewCount int           `json:"review_count"`
	PriceTier   *int          `json:"price_tier,omitempty"`
	Cuisine     string        `json:"cuisine,omitempty"`
	Operational bool          `json:"operational"`
	ImageURL    string        `json:"image_url,omitempty"`
}

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toDTO(res discovery.Result) resultDTO {
	dto := resultDTO{
		Restaurants:   make([]scoredDTO, 0, len(res.Restaurants)),
		Insights:      res.Insights,
		PlatformsUsed: res.PlatformsUsed,
		Partial:       res.Partial,
		Message:       res.Message,
	}
	for i := range res.Restaurants {
		dto.Restaurants = append(dto.Restaurants, toScoredDTO(&res.Restaurants[i]))
	}
	return dto
}

func toScoredDTO(s *restaurant.Scored) scoredDTO {
	r := s.Restaurant()
	return scoredDTO{
		Restaurant: toRestaurantDTO(&r),
		Vector:     s.Vector(),
		Composite:  s.Composite(),
		Reasons:    s.Reasons(),
	}
}

func toRestaurantDTO(r *restaurant.Restaurant) restaurantDTO {
	dto := restaurantDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		Address:     r.Address(),
		ImageURL:    r.ImageURL(),
		Verified:    r.CrossSourceVerified(),
		Consistency: r.PlatformConsistency(),
		Cuisine:     r.Cuisine(),
		PriceLabel:  r.PriceLabel(),
		Features:    r.Features(),
	}
	if p, ok := r.Coordinate(); ok {
		dto.Coordinate = &pointDTO{Lat: p.Lat, Lon: p.Lon}
	}
	if l, ok := r.Google(); ok {
		dto.Google = toListingDTO(&l)
	}
	if l, ok := r.Yelp(); ok {
		dto.Yelp = toListingDTO(&l)
	}
	return dto
}

func toListingDTO(l *listing.Listing) *listingDTO {
	dto := &listingDTO{
		ID:          l.ID(),
		Source:      l.Source(),
		Name:        l.Name(),
		Address:     l.Address(),
		ReviewCount: l.ReviewCount(),
		Cuisine:     l.Cuisine(),
		Operational: l.Operational(),
		ImageURL:    l.ImageURL(),
	}
	if p, ok := l.Coordinate(); ok {
		dto.Coordinate = &pointDTO{Lat: p.Lat, Lon: p.Lon}
	}
	if rating, ok := l.Rating(); ok {
		r := rating
		dto.Rating = &r
	}
	if tier, ok := l.PriceTier(); ok {
		tc := tier
		dto.PriceTier = &tc
	}
	return dto
}

func fromDTO(dto resultDTO) discovery.Result {
	res := discovery.Result{
		Restaurants:   make([]restaurant.Scored, 0, len(dto.Restaurants)),
		Insights:      dto.Insights,
		PlatformsUsed: dto.PlatformsUsed,
		Partial:       dto.Partial,
		Message:       dto.Message,
	}
	for _, s := range dto.Restaurants {
		res.Restaurants = append(res.Restaurants, restaurant.NewScored(
			fromRestaurantDTO(s.Restaurant), s.Vector, s.Composite, s.Reasons,
		))
	}
	return res
}

func fromRestaurantDTO(dto restaurantDTO) restaurant.Restaurant {
	return restaurant.Reconstruct(restaurant.Params{
		ID:          dto.ID,
		Name:        dto.Name,
		Address:     dto.Address,
		Coordinate:  fromPointDTO(dto.Coordinate),
		ImageURL:    dto.ImageURL,
		Google:      fromListingDTO(dto.Google),
		Yelp:        fromListingDTO(dto.Yelp),
		Verified:    dto.Verified,
		Consistency: dto.Consistency,
		Cuisine:     dto.Cuisine,
		PriceLabel:  dto.PriceLabel,
		Features:    dto.Features,
	})
}

func fromListingDTO(dto *listingDTO) *listing.Listing {
	if dto == nil {
		return nil
	}
	l := listing.Reconstruct(listing.Params{
		ID:          dto.ID,
		Source:      dto.Source,
		Name:        dto.Name,
		Address:     dto.Address,
		Coordinate:  fromPointDTO(dto.Coordinate),
		Rating:      dto.Rating,
		ReviewCount: dto.ReviewCount,
		PriceTier:   dto.PriceTier,
		Cuisine:     dto.Cuisine,
		Operational: dto.Operational,
		ImageURL:    dto.ImageURL,
	})
	return &l
}

func fromPointDTO(dto *pointDTO) *geo.Point {
	if dto == nil {
		return nil
	}
	return &geo.Point{Lat: dto.Lat, Lon: dto.Lon}
}
