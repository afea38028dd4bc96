package dinerank

import (
	"context"
	"fmt"
	"time"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// StaticSource is an in-memory platform built from fixed data. It serves
// both discovery and review analysis, so a client can run fully offline
// (tests, demos, fixture-driven evaluation). Its reviews are marked
// synthetic in analysis output.
type StaticSource struct {
	src      source.Source
	listings []listing.Listing
	reviews  map[string][]review.Review
}

// NewStaticSource builds a static platform for "google" or "yelp".
// Listings and reviews are validated and normalized once, up front.
func NewStaticSource(platform string, listings []StaticListing, reviews []StaticReview) (*StaticSource, error) {
	src := source.Source(platform)
	if !src.IsValid() {
		return nil, fmt.Errorf("dinerank: unknown platform %q", platform)
	}

	s := &StaticSource{
		src:     src,
		reviews: make(map[string][]review.Review),
	}
	for i, in := range listings {
		l, err := listing.New(listingParams(src, in))
		if err != nil {
			return nil, fmt.Errorf("dinerank: static listing %d: %w", i, err)
		}
		s.listings = append(s.listings, l)
	}
	for i, in := range reviews {
		if in.ListingID == "" {
			return nil, fmt.Errorf("dinerank: static review %d: listing ID is required", i)
		}
		r, err := review.New(reviewParams(src, in))
		if err != nil {
			return nil, fmt.Errorf("dinerank: static review %d: %w", i, err)
		}
		s.reviews[in.ListingID] = append(s.reviews[in.ListingID], r)
	}
	return s, nil
}

// Source returns the platform this source impersonates.
func (s *StaticSource) Source() source.Source { return s.src }

// Search returns every static listing; query and location are ignored.
func (s *StaticSource) Search(_ context.Context, _, _ string, _ *geo.Point) ([]listing.Listing, error) {
	out := make([]listing.Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

// Reviews returns the static reviews registered for the listing.
func (s *StaticSource) Reviews(_ context.Context, listingID string) ([]review.Review, error) {
	rs := s.reviews[listingID]
	out := make([]review.Review, len(rs))
	copy(out, rs)
	return out, nil
}

// HealthCheck always succeeds.
func (s *StaticSource) HealthCheck(_ context.Context) error { return nil }

func listingParams(src source.Source, in StaticListing) listing.Params {
	p := listing.Params{
		ID:          in.ID,
		Source:      src,
		Name:        in.Name,
		Address:     in.Address,
		Rating:      in.Rating,
		ReviewCount: in.ReviewCount,
		PriceTier:   in.PriceTier,
		Cuisine:     in.Cuisine,
		Operational: in.Operational,
		ImageURL:    in.ImageURL,
	}
	if in.Coordinate != nil {
		p.Coordinate = &geo.Point{Lat: in.Coordinate.Lat, Lon: in.Coordinate.Lon}
	}
	return p
}

func reviewParams(src source.Source, in StaticReview) review.Params {
	p := review.Params{
		Source:        src,
		Rating:        in.Rating,
		Text:          in.Text,
		Author:        in.Author,
		AuthorReviews: in.AuthorReviews,
		Synthetic:     true,
	}
	if in.PostedAtUnix > 0 {
		at := time.Unix(in.PostedAtUnix, 0).UTC()
		p.PostedAt = &at
	}
	return p
}
