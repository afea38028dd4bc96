package googleplaces

import (
	"strings"
	"time"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// Wire types mirroring the Places API payloads.

type textSearchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Reviews []placeReview `json:"reviews"`
	} `json:"result"`
}

type place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
	BusinessStatus   string   `json:"business_status"`
	Photos           []photo  `json:"photos"`
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
}

type placeReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}

func toListing(p place) (listing.Listing, error) {
	params := listing.Params{
		ID:          p.PlaceID,
		Source:      source.Google,
		Name:        p.Name,
		Address:     p.FormattedAddress,
		ReviewCount: p.UserRatingsTotal,
		Cuisine:     cuisineFromTypes(p.Types),
		// Places omits business_status for some results; absence means open.
		Operational: p.BusinessStatus == "" || p.BusinessStatus == "OPERATIONAL",
	}
	if p.Geometry.Location.Lat != 0 || p.Geometry.Location.Lng != 0 {
		params.Coordinate = &geo.Point{Lat: p.Geometry.Location.Lat, Lon: p.Geometry.Location.Lng}
	}
	if p.Rating > 0 {
		r := p.Rating
		params.Rating = &r
	}
	// price_level 0 means free; never a restaurant tier.
	if p.PriceLevel != nil && *p.PriceLevel >= listing.MinPriceTier && *p.PriceLevel <= listing.MaxPriceTier {
		params.PriceTier = p.PriceLevel
	}
	if len(p.Photos) > 0 && p.Photos[0].PhotoReference != "" {
		params.ImageURL = "/maps/api/place/photo?maxwidth=800&photo_reference=" + p.Photos[0].PhotoReference
	}
	return listing.New(params)
}

func toReview(pr placeReview) (review.Review, error) {
	params := review.Params{
		Source: source.Google,
		Rating: pr.Rating,
		Text:   pr.Text,
		Author: pr.AuthorName,
	}
	if pr.Time > 0 {
		at := time.Unix(pr.Time, 0).UTC()
		params.PostedAt = &at
	}
	return review.New(params)
}

// cuisineFromTypes extracts a cuisine label from the Places type list.
// "italian_restaurant" style types win over the generic "restaurant".
func cuisineFromTypes(types []string) string {
	for _, t := range types {
		if cuisine, ok := strings.CutSuffix(t, "_restaurant"); ok {
			return strings.ReplaceAll(cuisine, "_", " ")
		}
	}
	return ""
}
