package request

import (
	"fmt"
	"strings"

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/search/order"
)

// Search parameter limits.
const (
	// MinQueryLength applies to both the query and the location text.
	MinQueryLength = 2
	// MaxQueryLength is the maximum allowed length for query and location.
	MaxQueryLength = 256
	DefaultLimit   = 20
	MaxLimit       = 50
)

// Filters narrows the result set before scoring. Zero values mean "no
// constraint". Failing a filter excludes a restaurant entirely, it is not
// merely down-ranked.
type Filters struct {
	MaxPriceTier int     // 1-4, 0 = any
	MinRating    float64 // 1-5, 0 = any
	Cuisine      string  // substring match against the derived cuisine label
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.MaxPriceTier == 0 && f.MinRating == 0 && f.Cuisine == ""
}

// Request is a validated restaurant search.
type Request struct {
	query    string
	location string
	near     *geo.Point
	sort     order.Order
	filters  Filters
	limit    int
}

// New validates and normalizes search parameters.
// Defaults: order=smart, limit=20.
func New(
	query, location string,
	near *geo.Point,
	sort order.Order,
	filters Filters,
	limit int,
) (Request, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if len(query) < MinQueryLength {
		return Request{}, fmt.Errorf("query must be at least %d characters: %w", MinQueryLength, domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if len(location) < MinQueryLength {
		return Request{}, fmt.Errorf("location must be at least %d characters: %w", MinQueryLength, domain.ErrInvalidRequest)
	}
	if len(location) > MaxQueryLength {
		return Request{}, fmt.Errorf("location too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if sort == "" {
		sort = order.Smart
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("invalid sort order %q: %w", sort, domain.ErrInvalidRequest)
	}
	if near != nil && !near.Valid() {
		return Request{}, fmt.Errorf("invalid coordinate %v: %w", *near, domain.ErrInvalidRequest)
	}
	if filters.MaxPriceTier < 0 || filters.MaxPriceTier > 4 {
		return Request{}, fmt.Errorf("max price tier must be between 1 and 4: %w", domain.ErrInvalidRequest)
	}
	if filters.MinRating < 0 || filters.MinRating > 5 {
		return Request{}, fmt.Errorf("min rating must be between 1 and 5: %w", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var nearCopy *geo.Point
	if near != nil {
		c := *near
		nearCopy = &c
	}
	return Request{
		query:    query,
		location: location,
		near:     nearCopy,
		sort:     sort,
		filters:  filters,
		limit:    limit,
	}, nil
}

// Query returns the free-text search terms.
func (r *Request) Query() string { return r.query }

// Location returns the location text forwarded to the platform clients.
func (r *Request) Location() string { return r.location }

// Near returns the caller's coordinate, if supplied.
func (r *Request) Near() (geo.Point, bool) {
	if r.near == nil {
		return geo.Point{}, false
	}
	return *r.near, true
}

// Sort returns the result ordering strategy.
func (r *Request) Sort() order.Order { return r.sort }

// Filters returns the pre-scoring exclusion filters.
func (r *Request) Filters() Filters { return r.filters }

// Limit returns the maximum number of results to return.
func (r *Request) Limit() int { return r.limit }

// CacheKey returns a deterministic serialization of every parameter that
// affects the search output.
func (r *Request) CacheKey() string {
	near := "-"
	if r.near != nil {
		near = fmt.Sprintf("%.4f,%.4f", r.near.Lat, r.near.Lon)
	}
	return fmt.Sprintf("search|q=%s|l=%s|near=%s|sort=%s|p=%d|r=%.1f|c=%s|n=%d",
		strings.ToLower(r.query), strings.ToLower(r.location), near, r.sort,
		r.filters.MaxPriceTier, r.filters.MinRating, strings.ToLower(r.filters.Cuisine), r.limit,
	)
}
