package discovery

import (
	"context"

	"github.com/dinerank/dinerank/internal/domain/geo"
	"github.com/dinerank/dinerank/internal/domain/listing"
	"github.com/dinerank/dinerank/internal/domain/search/request"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// ListingSource fetches raw listings from one platform. Implementations wrap
// a platform API client and normalize its payloads into domain listings.
type ListingSource interface {
	Source() source.Source
	Search(ctx context.Context, query, location string, near *geo.Point) ([]listing.Listing, error)
}

// Cache stores completed search results keyed by the normalized request.
// Get returns domain.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, req *request.Request) (Result, error)
	Set(ctx context.Context, req *request.Request, res Result) error
}
