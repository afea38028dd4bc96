package chi

import (
	"fmt"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/domain/search/order"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/domain/source"
	"github.com/dinerank/dinerank/internal/usecase/discovery"
)

// Wire types for the HTTP API.

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeNotFound          = "not_found"
	codeSourceUnavailable = "source_unavailable"
	codeInternalError     = "internal_error"
)

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type searchFiltersPayload struct {
	MaxPriceTier int     `json:"max_price_tier,omitempty"`
	MinRating    float64 `json:"min_rating,omitempty"`
	Cuisine      string  `json:"cuisine,omitempty"`
}

type searchRequestPayload struct {
	Query    string                `json:"query"`
	Location string                `json:"location"`
	Near     *pointPayload         `json:"near,omitempty"`
	Sort     string                `json:"sort,omitempty"`
	Filters  *searchFiltersPayload `json:"filters,omitempty"`
	Limit    int                   `json:"limit,omitempty"`
}

type searchResponsePayload struct {
	Restaurants   []restaurantPayload `json:"restaurants"`
	Insights      discovery.Insights  `json:"insights"`
	PlatformsUsed []source.Source     `json:"platforms_used"`
	Partial       bool                `json:"partial,omitempty"`
	Cached        bool                `json:"cached,omitempty"`
	Message       string              `json:"message,omitempty"`
	Total         int                 `json:"total"`
}

type restaurantPayload struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Address     string           `json:"address,omitempty"`
	Coordinate  *pointPayload    `json:"coordinate,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	TotalRevs   int              `json:"total_reviews"`
	PriceTier   *int             `json:"price_tier,omitempty"`
	PriceLabel  string           `json:"price_label,omitempty"`
	Cuisine     string           `json:"cuisine,omitempty"`
	Features    []string         `json:"features,omitempty"`
	Verified    bool             `json:"verified"`
	Consistency float64          `json:"consistency"`
	Sources     []sourcePayload  `json:"sources"`
	Score       float64          `json:"score"`
	Factors     score.Vector     `json:"factors"`
	Reasons     []string         `json:"reasons,omitempty"`
}

type sourcePayload struct {
	Source      source.Source `json:"source"`
	ID          string        `json:"id"`
	Rating      *float64      `json:"rating,omitempty"`
	ReviewCount int           `json:"review_count"`
	URLHint     string        `json:"image_url,omitempty"`
}

type analysisRequestPayload struct {
	GoogleID string `json:"google_id,omitempty"`
	YelpID   string `json:"yelp_id,omitempty"`
	Name     string `json:"name"`
}

func toSearchRequest(p searchRequestPayload) (*request.Request, error) {
	var near *geo.Point
	if p.Near != nil {
		near = &geo.Point{Lat: p.Near.Lat, Lon: p.Near.Lon}
	}

	sort := order.Smart
	if p.Sort != "" {
		sort = order.Order(p.Sort)
		if !sort.IsValid() {
			return nil, fmt.Errorf("unknown sort order %q", p.Sort)
		}
	}

	var filters request.Filters
	if p.Filters != nil {
		filters = request.Filters{
			MaxPriceTier: p.Filters.MaxPriceTier,
			MinRating:    p.Filters.MinRating,
			Cuisine:      p.Filters.Cuisine,
		}
	}

	req, err := request.New(p.Query, p.Location, near, sort, filters, p.Limit)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func toSearchResponse(res discovery.Result) searchResponsePayload {
	out := searchResponsePayload{
		Restaurants:   make([]restaurantPayload, 0, len(res.Restaurants)),
		Insights:      res.Insights,
		PlatformsUsed: res.PlatformsUsed,
		Partial:       res.Partial,
		Cached:        res.Cached,
		Message:       res.Message,
		Total:         len(res.Restaurants),
	}
	for i := range res.Restaurants {
		out.Restaurants = append(out.Restaurants, toRestaurantPayload(&res.Restaurants[i]))
	}
	return out
}

func toRestaurantPayload(s *restaurant.Scored) restaurantPayload {
	r := s.Restaurant()
	p := restaurantPayload{
		ID:          r.ID(),
		Name:        r.Name(),
		Address:     r.Address(),
		ImageURL:    r.ImageURL(),
		TotalRevs:   r.TotalReviews(),
		PriceLabel:  r.PriceLabel(),
		Cuisine:     r.Cuisine(),
		Features:    r.Features(),
		Verified:    r.CrossSourceVerified(),
		Consistency: r.PlatformConsistency(),
		Score:       s.Composite(),
		Factors:     s.Vector(),
		Reasons:     s.Reasons(),
	}
	if coord, ok := r.Coordinate(); ok {
		p.Coordinate = &pointPayload{Lat: coord.Lat, Lon: coord.Lon}
	}
	if rating, ok := r.Rating(); ok {
		p.Rating = &rating
	}
	if tier, ok := r.PriceTier(); ok {
		p.PriceTier = &tier
	}
	for _, src := range r.Sources() {
		if l, ok := r.SourceListing(src); ok {
			p.Sources = append(p.Sources, toSourcePayload(&l))
		}
	}
	return p
}

func toSourcePayload(l *listing.Listing) sourcePayload {
	p := sourcePayload{
		Source:      l.Source(),
		ID:          l.ID(),
		ReviewCount: l.ReviewCount(),
		URLHint:     l.ImageURL(),
	}
	if rating, ok := l.Rating(); ok {
		p.Rating = &rating
	}
	return p
}

func toAnalysisRequest(p analysisRequestPayload) (*analysis.Request, error) {
	req, err := analysis.NewRequest(p.GoogleID, p.YelpID, p.Name)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
