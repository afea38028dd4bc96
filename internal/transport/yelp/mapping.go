package yelp

import (
	"strings"
	"time"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// timeCreatedLayout is the Fusion timestamp format.
const timeCreatedLayout = "2006-01-02 15:04:05"

// Wire types mirroring the Fusion API payloads.

type searchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

type reviewsResponse struct {
	Reviews []yelpReview `json:"reviews"`
}

type business struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Price       string     `json:"price"`
	Categories  []category `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	IsClosed bool   `json:"is_closed"`
	ImageURL string `json:"image_url"`
}

type category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type yelpReview struct {
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	TimeCreated string  `json:"time_created"`
	User        struct {
		Name        string `json:"name"`
		ReviewCount *int   `json:"review_count"`
	} `json:"user"`
}

func toListing(b business) (listing.Listing, error) {
	params := listing.Params{
		ID:          b.ID,
		Source:      source.Yelp,
		Name:        b.Name,
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		ReviewCount: b.ReviewCount,
		Cuisine:     cuisineFromCategories(b.Categories),
		Operational: !b.IsClosed,
		ImageURL:    b.ImageURL,
	}
	if b.Coordinates.Latitude != 0 || b.Coordinates.Longitude != 0 {
		params.Coordinate = &geo.Point{Lat: b.Coordinates.Latitude, Lon: b.Coordinates.Longitude}
	}
	if b.Rating > 0 {
		r := b.Rating
		params.Rating = &r
	}
	// Fusion encodes price as "$".."$$$$".
	if tier := len(b.Price); tier >= listing.MinPriceTier && tier <= listing.MaxPriceTier && strings.Count(b.Price, "$") == tier {
		params.PriceTier = &tier
	}
	return listing.New(params)
}

func toReview(yr yelpReview) (review.Review, error) {
	params := review.Params{
		Source:        source.Yelp,
		Rating:        yr.Rating,
		Text:          yr.Text,
		Author:        yr.User.Name,
		AuthorReviews: yr.User.ReviewCount,
	}
	if at, err := time.Parse(timeCreatedLayout, yr.TimeCreated); err == nil {
		utc := at.UTC()
		params.PostedAt = &utc
	}
	return review.New(params)
}

// cuisineFromCategories picks the first non-generic category title.
func cuisineFromCategories(categories []category) string {
	for _, c := range categories {
		switch c.Alias {
		case "restaurants", "food":
			continue
		}
		return c.Title
	}
	return ""
}
