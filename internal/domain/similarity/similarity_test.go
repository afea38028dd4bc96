package similarity

import (
	"testing"

	"github.com/dinerank/dinerank/internal/domain/geo"
)

func TestEdit(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"tacos", "tacos", 1.0},
		{"tacos", "", 0.0},
		{"abcd", "abxd", 0.75},
	}
	for _, tc := range cases {
		if got := Edit(tc.a, tc.b); got != tc.want {
			t.Errorf("Edit(%q,%q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEdit_Symmetric(t *testing.T) {
	if Edit("luigi", "luigis") != Edit("luigis", "luigi") {
		t.Error("edit similarity must be symmetric")
	}
}

func TestToken_FallsBackToEdit(t *testing.T) {
	// Single-character tokens never qualify, so both sides fall back.
	if got, want := Token("a b", "a b"), Edit("a b", "a b"); got != want {
		t.Errorf("expected fallback to Edit (%v), got %v", want, got)
	}
}

func TestToken_Dice(t *testing.T) {
	// {golden, dragon} vs {golden, palace}: one shared of four -> 0.5
	if got := Token("golden dragon", "golden palace"); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

// nameSimilarity(x,x) == 1.0 for any non-empty string x.
func TestName_Reflexive(t *testing.T) {
	for _, s := range []string{"Luigi's", "Golden Dragon Restaurant", "café 42", "x"} {
		if got := Name(s, s); got != 1.0 {
			t.Errorf("Name(%q,%q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestName_IgnoresGenericWords(t *testing.T) {
	if got := Name("Luigi's Restaurant", "Luigi's"); got != 1.0 {
		t.Errorf("generic suffix should not affect the match, got %v", got)
	}
	if got := Name("The Golden Dragon", "Golden Dragon Grill"); got != 1.0 {
		t.Errorf("stop words should not affect the match, got %v", got)
	}
}

func TestAddress(t *testing.T) {
	if got := Address("12 Elm St, Springfield", "12 Elm St, Shelbyville"); got != 1.0 {
		t.Errorf("same street segment should match fully, got %v", got)
	}
	if got := Address("", "12 Elm St"); got != 0 {
		t.Errorf("empty address must score 0, got %v", got)
	}
	same := Address("12 Elm St, Springfield", "12 Elm St, Springfield")
	diff := Address("12 Elm St, Springfield", "99 Oak Ave, Springfield")
	if diff >= same {
		t.Errorf("different streets %v should score below same street %v", diff, same)
	}
}

func TestGeo_StepFunction(t *testing.T) {
	base := geo.Point{Lat: 40.0, Lon: -74.0}
	// ~1 degree latitude is ~111 km; scale offsets to hit each band.
	cases := []struct {
		dLat float64
		want float64
	}{
		{0.0, 1.0},    // same point
		{0.0003, 1.0}, // ~33m
		{0.0015, 0.8}, // ~167m
		{0.004, 0.5},  // ~444m
		{0.02, 0.0},   // ~2.2km
	}
	for _, tc := range cases {
		p := geo.Point{Lat: base.Lat + tc.dLat, Lon: base.Lon}
		if got := Geo(&base, &p); got != tc.want {
			t.Errorf("Geo(+%vdeg) = %v, want %v", tc.dLat, got, tc.want)
		}
	}
}

func TestGeo_MissingCoordinate(t *testing.T) {
	p := geo.Point{Lat: 40, Lon: -74}
	if Geo(nil, &p) != 0 || Geo(&p, nil) != 0 {
		t.Error("missing coordinate must score 0")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("The Golden Dragon Café!"); got != "golden dragon" {
		t.Errorf("unexpected normalization: %q", got)
	}
}
