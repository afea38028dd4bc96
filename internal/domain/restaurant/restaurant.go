// Package restaurant defines the canonical merged restaurant aggregate
// produced by entity resolution and consumed by the scoring engine.
package restaurant

import (
	"fmt"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// Restaurant is one physical restaurant reconciled from up to one listing per
// platform. Created once per search, never mutated after scoring.
type Restaurant struct {
	id          string
	name        string
	address     string
	coordinate  *geo.Point
	imageURL    string
	google      *listing.Listing
	yelp        *listing.Listing
	verified    bool
	consistency float64
	cuisine     string
	priceLabel  string
	features    []string
}

// Params carries the reconciled fields into New/Reconstruct.
type Params struct {
	ID          string
	Name        string
	Address     string
	Coordinate  *geo.Point
	ImageURL    string
	Google      *listing.Listing
	Yelp        *listing.Listing
	Verified    bool
	Consistency float64
	Cuisine     string
	PriceLabel  string
	Features    []string
}

// New validates and creates a Restaurant.
func New(p Params) (Restaurant, error) {
	if p.ID == "" {
		return Restaurant{}, fmt.Errorf("restaurant ID is required")
	}
	if p.Name == "" {
		return Restaurant{}, fmt.Errorf("restaurant name is required")
	}
	if p.Google == nil && p.Yelp == nil {
		return Restaurant{}, fmt.Errorf("at least one source listing is required")
	}
	if p.Verified && (p.Google == nil || p.Yelp == nil) {
		return Restaurant{}, fmt.Errorf("cross-source verification requires both listings")
	}
	if p.Consistency < 0 || p.Consistency > 1 {
		return Restaurant{}, fmt.Errorf("platform consistency %v out of range [0,1]", p.Consistency)
	}
	return reconstruct(p), nil
}

// Reconstruct creates a Restaurant without validation (cache hydration).
func Reconstruct(p Params) Restaurant {
	return reconstruct(p)
}

func reconstruct(p Params) Restaurant {
	var coord *geo.Point
	if p.Coordinate != nil {
		c := *p.Coordinate
		coord = &c
	}
	features := make([]string, len(p.Features))
	copy(features, p.Features)
	return Restaurant{
		id:          p.ID,
		name:        p.Name,
		address:     p.Address,
		coordinate:  coord,
		imageURL:    p.ImageURL,
		google:      cloneListing(p.Google),
		yelp:        cloneListing(p.Yelp),
		verified:    p.Verified,
		consistency: p.Consistency,
		cuisine:     p.Cuisine,
		priceLabel:  p.PriceLabel,
		features:    features,
	}
}

func cloneListing(l *listing.Listing) *listing.Listing {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// ID returns the canonical identifier (the winning listing's platform ID).
func (r *Restaurant) ID() string { return r.id }

// Name returns the canonical display name.
func (r *Restaurant) Name() string { return r.name }

// Address returns the canonical address.
func (r *Restaurant) Address() string { return r.address }

// Coordinate returns the canonical location, if any listing supplied one.
func (r *Restaurant) Coordinate() (geo.Point, bool) {
	if r.coordinate == nil {
		return geo.Point{}, false
	}
	return *r.coordinate, true
}

// ImageURL returns the best available image reference.
func (r *Restaurant) ImageURL() string { return r.imageURL }

// Google returns the Google Places sub-record, if one contributed.
func (r *Restaurant) Google() (listing.Listing, bool) {
	if r.google == nil {
		return listing.Listing{}, false
	}
	return *r.google, true
}

// Yelp returns the Yelp sub-record, if one contributed.
func (r *Restaurant) Yelp() (listing.Listing, bool) {
	if r.yelp == nil {
		return listing.Listing{}, false
	}
	return *r.yelp, true
}

// SourceListing returns the sub-record for the given platform.
func (r *Restaurant) SourceListing(s source.Source) (listing.Listing, bool) {
	switch s {
	case source.Google:
		return r.Google()
	case source.Yelp:
		return r.Yelp()
	default:
		return listing.Listing{}, false
	}
}

// CrossSourceVerified reports whether both platforms contributed a listing.
func (r *Restaurant) CrossSourceVerified() bool { return r.verified }

// PlatformConsistency returns the rating-agreement score in [0,1].
// Meaningful only when CrossSourceVerified is true.
func (r *Restaurant) PlatformConsistency() float64 { return r.consistency }

// Cuisine returns the derived cuisine style label.
func (r *Restaurant) Cuisine() string { return r.cuisine }

// PriceLabel returns the derived price category ("budget".."luxury").
func (r *Restaurant) PriceLabel() string { return r.priceLabel }

// Features returns the derived feature tags ("chain", "hidden gem", ...).
func (r *Restaurant) Features() []string {
	out := make([]string, len(r.features))
	copy(out, r.features)
	return out
}

// HasFeature reports whether the given tag was derived for this restaurant.
func (r *Restaurant) HasFeature(tag string) bool {
	for _, f := range r.features {
		if f == tag {
			return true
		}
	}
	return false
}

// Rating returns the review-count-weighted blend of the per-platform ratings.
// False when neither platform supplied a rating.
func (r *Restaurant) Rating() (float64, bool) {
	var sum, weight float64
	for _, l := range []*listing.Listing{r.google, r.yelp} {
		if l == nil {
			continue
		}
		rating, ok := l.Rating()
		if !ok {
			continue
		}
		// A rating backed by zero reported reviews still counts once.
		w := float64(l.ReviewCount())
		if w < 1 {
			w = 1
		}
		sum += rating * w
		weight += w
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// TotalReviews returns the combined review count across platforms.
func (r *Restaurant) TotalReviews() int {
	total := 0
	if r.google != nil {
		total += r.google.ReviewCount()
	}
	if r.yelp != nil {
		total += r.yelp.ReviewCount()
	}
	return total
}

// PriceTier returns the lowest price tier reported by any platform.
func (r *Restaurant) PriceTier() (int, bool) {
	best := 0
	for _, l := range []*listing.Listing{r.google, r.yelp} {
		if l == nil {
			continue
		}
		if tier, ok := l.PriceTier(); ok && (best == 0 || tier < best) {
			best = tier
		}
	}
	return best, best != 0
}

// Operational reports whether any platform lists the place as open.
func (r *Restaurant) Operational() bool {
	if r.google != nil && r.google.Operational() {
		return true
	}
	if r.yelp != nil && r.yelp.Operational() {
		return true
	}
	return false
}

// Sources returns the platforms that contributed, in canonical order.
func (r *Restaurant) Sources() []source.Source {
	var out []source.Source
	if r.google != nil {
		out = append(out, source.Google)
	}
	if r.yelp != nil {
		out = append(out, source.Yelp)
	}
	return out
}
