package restaurant

import "github.com/dinerank/dinerank/internal/domain/score"

// Scored wraps a Restaurant with its ranking annotations.
type Scored struct {
	restaurant Restaurant
	vector     score.Vector
	composite  float64
	reasons    []string
}

// NewScored creates a scored restaurant.
func NewScored(r Restaurant, v score.Vector, composite float64, reasons []string) Scored {
	rs := make([]string, len(reasons))
	copy(rs, reasons)
	return Scored{restaurant: r, vector: v, composite: composite, reasons: rs}
}

// Restaurant returns the underlying merged restaurant.
func (s *Scored) Restaurant() Restaurant { return s.restaurant }

// Vector returns the per-factor score vector.
func (s *Scored) Vector() score.Vector { return s.vector }

// Composite returns the weighted composite score in [0,1].
func (s *Scored) Composite() float64 { return s.composite }

// Reasons returns up to three human-readable recommendation labels.
func (s *Scored) Reasons() []string {
	out := make([]string, len(s.reasons))
	copy(out, s.reasons)
	return out
}
