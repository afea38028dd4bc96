package source

// Source identifies the platform a listing or review came from.
type Source string

// The two supported platforms. Merge is a strict two-source model:
// a merged restaurant holds at most one sub-record per source.
const (
	// Google is the Google Places platform (listing seeds).
	Google Source = "google"
	// Yelp is the Yelp Fusion platform (merged onto Google seeds).
	Yelp Source = "yelp"
)

// All returns the supported sources in canonical order.
func All() []Source {
	return []Source{Google, Yelp}
}

// IsValid checks if the source is one of the supported platforms.
func (s Source) IsValid() bool {
	return s == Google || s == Yelp
}

// String returns the platform tag.
func (s Source) String() string { return string(s) }
