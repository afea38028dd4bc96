package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search or analysis request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSourceUnavailable signals a platform client failure. Absorbed at the
	// orchestration boundary into an empty result for that source.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNarrativeUnavailable signals a narrative provider failure. Callers
	// treat it as "no enrichment", never as a request failure.
	ErrNarrativeUnavailable = errors.New("narrative unavailable")
)
