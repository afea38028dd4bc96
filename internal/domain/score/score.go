// Package score defines the seven-factor ranking vector and the fixed weight
// table that collapses it into a single comparable composite.
package score

import (
	"fmt"
	"math"
)

// weightSumTolerance absorbs float accumulation error when validating that
// the weight table sums to 1.0.
const weightSumTolerance = 1e-9

// Vector holds the per-factor scores for one restaurant, each in [0,1].
type Vector struct {
	Rating      float64 `json:"rating"`
	Volume      float64 `json:"volume"`
	Recency     float64 `json:"recency"`
	Consistency float64 `json:"consistency"`
	PriceValue  float64 `json:"price_value"`
	Distance    float64 `json:"distance"`
	Uniqueness  float64 `json:"uniqueness"`
}

// Validate checks that every factor lies in [0,1].
func (v Vector) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"rating", v.Rating},
		{"volume", v.Volume},
		{"recency", v.Recency},
		{"consistency", v.Consistency},
		{"price_value", v.PriceValue},
		{"distance", v.Distance},
		{"uniqueness", v.Uniqueness},
	} {
		if f.value < 0 || f.value > 1 || math.IsNaN(f.value) {
			return fmt.Errorf("factor %s out of range [0,1]: %v", f.name, f.value)
		}
	}
	return nil
}

// Weights is the factor weight table. Configuration, not derived state.
type Weights struct {
	Rating      float64 `yaml:"rating" json:"rating"`
	Volume      float64 `yaml:"volume" json:"volume"`
	Recency     float64 `yaml:"recency" json:"recency"`
	Consistency float64 `yaml:"consistency" json:"consistency"`
	PriceValue  float64 `yaml:"price_value" json:"price_value"`
	Distance    float64 `yaml:"distance" json:"distance"`
	Uniqueness  float64 `yaml:"uniqueness" json:"uniqueness"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Rating:      0.25,
		Volume:      0.20,
		Recency:     0.15,
		Consistency: 0.15,
		PriceValue:  0.10,
		Distance:    0.10,
		Uniqueness:  0.05,
	}
}

// Validate checks that every weight is non-negative and the table sums to 1.0.
func (w Weights) Validate() error {
	entries := []struct {
		name  string
		value float64
	}{
		{"rating", w.Rating},
		{"volume", w.Volume},
		{"recency", w.Recency},
		{"consistency", w.Consistency},
		{"price_value", w.PriceValue},
		{"distance", w.Distance},
		{"uniqueness", w.Uniqueness},
	}
	sum := 0.0
	for _, e := range entries {
		if e.value < 0 {
			return fmt.Errorf("weight %s must not be negative: %v", e.name, e.value)
		}
		sum += e.value
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Composite returns the weighted dot product of v and w, rounded to three
// decimal places for stable, reproducible ordering.
func Composite(v Vector, w Weights) float64 {
	s := v.Rating*w.Rating +
		v.Volume*w.Volume +
		v.Recency*w.Recency +
		v.Consistency*w.Consistency +
		v.PriceValue*w.PriceValue +
		v.Distance*w.Distance +
		v.Uniqueness*w.Uniqueness
	return Round3(s)
}

// Round3 rounds to three decimal places.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
