package profile

import (
	"context"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// ReviewSource fetches reviews for one platform listing. Implementations wrap
// a platform API client and normalize its payloads into domain reviews.
type ReviewSource interface {
	Source() source.Source
	Reviews(ctx context.Context, listingID string) ([]review.Review, error)
}

// Narrator generates the optional prose enrichment for an analysis result.
type Narrator interface {
	Narrate(ctx context.Context, res analysis.Result) (*analysis.Narrative, error)
}

// Cache stores completed analyses keyed by the normalized request.
// Get returns domain.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, req *analysis.Request) (analysis.Result, error)
	Set(ctx context.Context, req *analysis.Request, res analysis.Result) error
}
