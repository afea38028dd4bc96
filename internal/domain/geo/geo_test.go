package geo

import (
	"math"
	"testing"
)

func TestPoint_Valid(t *testing.T) {
	valid := []Point{{0, 0}, {-90, 180}, {90, -180}, {40.7128, -74.006}}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("expected %v to be valid", p)
		}
	}
	invalid := []Point{{91, 0}, {-91, 0}, {0, 181}, {0, -181}}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("expected %v to be invalid", p)
		}
	}
}

func TestHaversineKm(t *testing.T) {
	// NYC to Philadelphia, ~130 km.
	nyc := Point{Lat: 40.7128, Lon: -74.0060}
	phl := Point{Lat: 39.9526, Lon: -75.1652}

	d := HaversineKm(nyc, phl)
	if math.Abs(d-130) > 5 {
		t.Errorf("expected ~130 km, got %v", d)
	}
	if HaversineKm(nyc, nyc) != 0 {
		t.Error("distance to self must be 0")
	}
	if HaversineKm(nyc, phl) != HaversineKm(phl, nyc) {
		t.Error("distance must be symmetric")
	}
}
