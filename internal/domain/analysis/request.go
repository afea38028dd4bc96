package analysis

import (
	"fmt"
	"strings"

	"github.com/dinerank/dinerank/internal/domain"
)

// Request identifies one restaurant across platforms for review analysis.
// An empty platform ID means that platform is skipped, not failed.
type Request struct {
	googleID    string
	yelpID      string
	displayName string
}

// NewRequest validates an analysis request. At least one platform ID is
// required; the display name feeds the output and the narrative prompt.
func NewRequest(googleID, yelpID, displayName string) (Request, error) {
	googleID = strings.TrimSpace(googleID)
	yelpID = strings.TrimSpace(yelpID)
	displayName = strings.TrimSpace(displayName)
	if googleID == "" && yelpID == "" {
		return Request{}, fmt.Errorf("at least one platform ID is required: %w", domain.ErrInvalidRequest)
	}
	if displayName == "" {
		return Request{}, fmt.Errorf("display name is required: %w", domain.ErrInvalidRequest)
	}
	return Request{googleID: googleID, yelpID: yelpID, displayName: displayName}, nil
}

// GoogleID returns the Google Places ID, empty if that platform is skipped.
func (r *Request) GoogleID() string { return r.googleID }

// YelpID returns the Yelp business ID, empty if that platform is skipped.
func (r *Request) YelpID() string { return r.yelpID }

// DisplayName returns the restaurant display name.
func (r *Request) DisplayName() string { return r.displayName }

// CacheKey returns a deterministic serialization of every parameter that
// affects the analysis output.
func (r *Request) CacheKey() string {
	return fmt.Sprintf("analysis|g=%s|y=%s|n=%s", r.googleID, r.yelpID, strings.ToLower(r.displayName))
}
