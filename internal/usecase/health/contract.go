package health

import (
	"context"

	"github.com/dinerank/dinerank/internal/domain/source"
)

// CachePinger checks result-cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SourceChecker checks one platform API's availability.
type SourceChecker interface {
	Source() source.Source
	HealthCheck(ctx context.Context) error
}

// NarratorChecker checks narrative provider availability.
type NarratorChecker interface {
	HealthCheck(ctx context.Context) error
}
