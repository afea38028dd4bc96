// Package merge implements cross-source entity resolution: deciding which
// listings from the two platforms describe the same physical restaurant and
// reconciling them into canonical merged records.
package merge

import (
	"fmt"

	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/similarity"
)

// Default match parameters. The composite match score blends name, address
// and geographic similarity; a candidate pairing is realized only above the
// threshold.
const (
	DefaultThreshold     = 0.65
	defaultNameWeight    = 0.55
	defaultAddressWeight = 0.35
	defaultGeoWeight     = 0.10
)

// Config tunes the match decision. Zero values take the defaults.
type Config struct {
	Threshold     float64
	NameWeight    float64
	AddressWeight float64
	GeoWeight     float64
}

func (c *Config) applyDefaults() {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.NameWeight == 0 && c.AddressWeight == 0 && c.GeoWeight == 0 {
		c.NameWeight = defaultNameWeight
		c.AddressWeight = defaultAddressWeight
		c.GeoWeight = defaultGeoWeight
	}
}

func (c *Config) validate() error {
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("match threshold must be in (0,1), got %v", c.Threshold)
	}
	sum := c.NameWeight + c.AddressWeight + c.GeoWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("match weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Engine resolves Google and Yelp listings into merged restaurants.
type Engine struct {
	cfg Config
}

// New creates a merge engine.
func New(cfg Config) (*Engine, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// MatchScore returns the composite match score between two listings.
// Monotonically non-decreasing in each of its similarity components.
func (e *Engine) MatchScore(a, b listing.Listing) float64 {
	var geoScore float64
	if ca, ok := a.Coordinate(); ok {
		if cb, ok := b.Coordinate(); ok {
			geoScore = similarity.Geo(&ca, &cb)
		}
	}
	return e.cfg.NameWeight*similarity.Name(a.Name(), b.Name()) +
		e.cfg.AddressWeight*similarity.Address(a.Address(), b.Address()) +
		e.cfg.GeoWeight*geoScore
}

// Merge reconciles the two listing sets into one deduplicated sequence.
// Google listings seed the result; each Yelp listing pairs with the best
// unmatched seed across the whole seed list, never with the first acceptable
// one, so a seed cannot steal a pairing that fits another seed better.
// Unmatched Yelp listings become standalone entries. Non-operational
// listings are retained; the scoring engine filters them.
func (e *Engine) Merge(googleListings, yelpListings []listing.Listing) []restaurant.Restaurant {
	type seed struct {
		google listing.Listing
		yelp   *listing.Listing
		score  float64
	}

	seeds := make([]seed, len(googleListings))
	for i, g := range googleListings {
		seeds[i] = seed{google: g}
	}

	var standalone []listing.Listing
	for _, y := range yelpListings {
		bestIdx := -1
		bestScore := 0.0
		for i := range seeds {
			if seeds[i].yelp != nil {
				continue
			}
			// Strict greater-than keeps ties on first-seen order.
			if s := e.MatchScore(seeds[i].google, y); s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}
		if bestIdx >= 0 && bestScore > e.cfg.Threshold {
			yc := y
			seeds[bestIdx].yelp = &yc
			seeds[bestIdx].score = bestScore
		} else {
			standalone = append(standalone, y)
		}
	}

	out := make([]restaurant.Restaurant, 0, len(seeds)+len(standalone))
	for i := range seeds {
		out = append(out, buildMerged(seeds[i].google, seeds[i].yelp))
	}
	for _, y := range standalone {
		out = append(out, buildStandalone(y))
	}
	return out
}

// buildMerged reconciles one seed and its optional Yelp pairing. The seed's
// descriptive fields win; the Yelp side contributes its rating, review
// count, price tier and image reference as a sub-record.
func buildMerged(g listing.Listing, y *listing.Listing) restaurant.Restaurant {
	p := restaurant.Params{
		ID:      g.ID(),
		Name:    g.Name(),
		Address: g.Address(),
		Google:  &g,
	}
	if c, ok := g.Coordinate(); ok {
		p.Coordinate = &c
	}
	p.ImageURL = g.ImageURL()

	cuisine := g.Cuisine()
	if y != nil {
		p.Yelp = y
		p.Verified = true
		p.Consistency = platformConsistency(g, *y)
		if p.Coordinate == nil {
			if c, ok := y.Coordinate(); ok {
				p.Coordinate = &c
			}
		}
		if p.ImageURL == "" {
			p.ImageURL = y.ImageURL()
		}
		cuisine = preferCuisine(g.Cuisine(), y.Cuisine())
	}

	classify(&p, cuisine)
	return restaurant.Reconstruct(p)
}

func buildStandalone(y listing.Listing) restaurant.Restaurant {
	p := restaurant.Params{
		ID:       y.ID(),
		Name:     y.Name(),
		Address:  y.Address(),
		ImageURL: y.ImageURL(),
		Yelp:     &y,
	}
	if c, ok := y.Coordinate(); ok {
		p.Coordinate = &c
	}
	classify(&p, y.Cuisine())
	return restaurant.Reconstruct(p)
}
