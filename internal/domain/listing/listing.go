package listing

import (
	"fmt"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// Rating and price bounds for normalized listings.
const (
	MinRating    = 1.0
	MaxRating    = 5.0
	MinPriceTier = 1
	MaxPriceTier = 4
)

// Listing is a normalized platform listing (immutable value object).
// Produced by a platform client once per fetch, consumed by the merge engine.
type Listing struct {
	id          string
	src         source.Source
	name        string
	address     string
	coordinate  *geo.Point
	rating      *float64
	reviewCount int
	priceTier   *int
	cuisine     string
	operational bool
	imageURL    string
}

// Params carries the normalized listing fields into New/Reconstruct.
// Nil pointers mean the platform did not supply the value.
type Params struct {
	ID          string
	Source      source.Source
	Name        string
	Address     string
	Coordinate  *geo.Point
	Rating      *float64
	ReviewCount int
	PriceTier   *int
	Cuisine     string
	Operational bool
	ImageURL    string
}

// New validates and creates a Listing.
func New(p Params) (Listing, error) {
	if p.ID == "" {
		return Listing{}, fmt.Errorf("listing ID is required")
	}
	if !p.Source.IsValid() {
		return Listing{}, fmt.Errorf("unknown listing source %q", p.Source)
	}
	if p.Name == "" {
		return Listing{}, fmt.Errorf("listing name is required")
	}
	if p.Rating != nil && (*p.Rating < MinRating || *p.Rating > MaxRating) {
		return Listing{}, fmt.Errorf("rating %v out of range [%v,%v]", *p.Rating, MinRating, MaxRating)
	}
	if p.ReviewCount < 0 {
		return Listing{}, fmt.Errorf("review count must not be negative")
	}
	if p.PriceTier != nil && (*p.PriceTier < MinPriceTier || *p.PriceTier > MaxPriceTier) {
		return Listing{}, fmt.Errorf("price tier %d out of range [%d,%d]", *p.PriceTier, MinPriceTier, MaxPriceTier)
	}
	if p.Coordinate != nil && !p.Coordinate.Valid() {
		return Listing{}, fmt.Errorf("invalid coordinate %v", *p.Coordinate)
	}
	return reconstruct(p), nil
}

// Reconstruct creates a Listing without validation (cache hydration).
func Reconstruct(p Params) Listing {
	return reconstruct(p)
}

func reconstruct(p Params) Listing {
	return Listing{
		id:          p.ID,
		src:         p.Source,
		name:        p.Name,
		address:     p.Address,
		coordinate:  clonePoint(p.Coordinate),
		rating:      cloneFloat(p.Rating),
		reviewCount: p.ReviewCount,
		priceTier:   cloneInt(p.PriceTier),
		cuisine:     p.Cuisine,
		operational: p.Operational,
		imageURL:    p.ImageURL,
	}
}

// ID returns the platform-native identifier.
func (l *Listing) ID() string { return l.id }

// Source returns the platform tag.
func (l *Listing) Source() source.Source { return l.src }

// Name returns the display name.
func (l *Listing) Name() string { return l.name }

// Address returns the formatted address (may be empty).
func (l *Listing) Address() string { return l.address }

// Coordinate returns the geographic location, if the platform supplied one.
func (l *Listing) Coordinate() (geo.Point, bool) {
	if l.coordinate == nil {
		return geo.Point{}, false
	}
	return *l.coordinate, true
}

// Rating returns the platform rating in [1,5], if present.
func (l *Listing) Rating() (float64, bool) {
	if l.rating == nil {
		return 0, false
	}
	return *l.rating, true
}

// ReviewCount returns the number of reviews behind the rating.
func (l *Listing) ReviewCount() int { return l.reviewCount }

// PriceTier returns the ordinal price tier 1-4, if present.
func (l *Listing) PriceTier() (int, bool) {
	if l.priceTier == nil {
		return 0, false
	}
	return *l.priceTier, true
}

// Cuisine returns the primary cuisine label (may be empty or generic).
func (l *Listing) Cuisine() string { return l.cuisine }

// Operational reports whether the platform lists the place as open for business.
func (l *Listing) Operational() bool { return l.operational }

// ImageURL returns the platform image reference (may be empty).
func (l *Listing) ImageURL() string { return l.imageURL }

func clonePoint(p *geo.Point) *geo.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
