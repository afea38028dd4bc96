package dinerank

import "github.com/dinerank/dinerank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrNotFound             = domain.ErrNotFound
	ErrSourceUnavailable    = domain.ErrSourceUnavailable
	ErrNarrativeUnavailable = domain.ErrNarrativeUnavailable
)
