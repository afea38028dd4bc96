// Package review defines the normalized review value type and the heuristic
// authenticity score derived from it.
package review

import (
	"fmt"
	"time"

	"github.com/dinerank/dinerank/internal/domain/source"
)

// Rating bounds for normalized reviews.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Review is a single platform review (immutable value object). The
// authenticity score is derived once at construction and travels with it.
type Review struct {
	src           source.Source
	rating        float64
	text          string
	author        string
	postedAt      *time.Time
	authorReviews *int
	authenticity  float64
	synthetic     bool
}

// Params carries the normalized review fields into New/Reconstruct.
// AuthorReviews is the reviewer-credibility signal; nil means unknown.
type Params struct {
	Source        source.Source
	Rating        float64
	Text          string
	Author        string
	PostedAt      *time.Time
	AuthorReviews *int
	Synthetic     bool
}

// New validates a review and derives its authenticity score.
func New(p Params) (Review, error) {
	if !p.Source.IsValid() {
		return Review{}, fmt.Errorf("unknown review source %q", p.Source)
	}
	if p.Rating < MinRating || p.Rating > MaxRating {
		return Review{}, fmt.Errorf("rating %v out of range [%v,%v]", p.Rating, MinRating, MaxRating)
	}
	if p.AuthorReviews != nil && *p.AuthorReviews < 0 {
		return Review{}, fmt.Errorf("author review count must not be negative")
	}
	r := reconstruct(p, 0)
	r.authenticity = scoreAuthenticity(r)
	return r, nil
}

// Reconstruct creates a Review with a previously derived authenticity score
// (cache hydration). No validation.
func Reconstruct(p Params, authenticity float64) Review {
	return reconstruct(p, authenticity)
}

func reconstruct(p Params, authenticity float64) Review {
	var at *time.Time
	if p.PostedAt != nil {
		c := *p.PostedAt
		at = &c
	}
	var ar *int
	if p.AuthorReviews != nil {
		c := *p.AuthorReviews
		ar = &c
	}
	return Review{
		src:           p.Source,
		rating:        p.Rating,
		text:          p.Text,
		author:        p.Author,
		postedAt:      at,
		authorReviews: ar,
		authenticity:  authenticity,
		synthetic:     p.Synthetic,
	}
}

// Source returns the platform the review came from.
func (r *Review) Source() source.Source { return r.src }

// Rating returns the star rating in [1,5].
func (r *Review) Rating() float64 { return r.rating }

// Text returns the free-form review text.
func (r *Review) Text() string { return r.text }

// Author returns the reviewer display label.
func (r *Review) Author() string { return r.author }

// PostedAt returns the review timestamp, if the platform supplied one.
func (r *Review) PostedAt() (time.Time, bool) {
	if r.postedAt == nil {
		return time.Time{}, false
	}
	return *r.postedAt, true
}

// AuthorReviews returns how many reviews the author has posted, if known.
func (r *Review) AuthorReviews() (int, bool) {
	if r.authorReviews == nil {
		return 0, false
	}
	return *r.authorReviews, true
}

// Authenticity returns the heuristic genuineness score in [0.1, 1.0].
func (r *Review) Authenticity() float64 { return r.authenticity }

// Synthetic reports whether the review was substituted for an unavailable
// source rather than fetched from a platform.
func (r *Review) Synthetic() bool { return r.synthetic }
