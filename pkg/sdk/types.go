package dinerank

// SortOrder is the result ordering strategy.
type SortOrder string

// Sort mode constants.
const (
	SortSmart    SortOrder = "smart"
	SortRating   SortOrder = "rating"
	SortDistance SortOrder = "distance"
	SortReviews  SortOrder = "reviews"
)

// LatLon is a WGS84 coordinate.
type LatLon struct {
	Lat float64
	Lon float64
}

// Filters narrows search results before scoring. Zero values mean "no
// constraint".
type Filters struct {
	MaxPriceTier int     // 1-4, 0 = any
	MinRating    float64 // 1-5, 0 = any
	Cuisine      string  // substring match against the derived cuisine label
}

// SearchQuery is a restaurant discovery request.
type SearchQuery struct {
	Query    string
	Location string
	Near     *LatLon // optional; enables distance scoring and sorting
	Sort     SortOrder
	Filters  Filters
	Limit    int
}

// SearchResult is the outcome of one discovery search.
type SearchResult struct {
	Restaurants   []Restaurant
	Insights      Insights
	PlatformsUsed []string
	Partial       bool // true when a platform failed and was skipped
	Cached        bool
	Message       string // set when no restaurants matched
}

// Restaurant is one ranked, cross-source merged result.
type Restaurant struct {
	ID           string
	Name         string
	Address      string
	Coordinate   *LatLon
	ImageURL     string
	Rating       *float64
	TotalReviews int
	PriceTier    *int
	PriceLabel   string
	Cuisine      string
	Features     []string
	Verified     bool // present on more than one platform
	Consistency  float64
	Sources      []SourceListing
	Score        float64
	Factors      ScoreFactors
	Reasons      []string
}

// SourceID returns the restaurant's ID on the named platform, or "" if the
// restaurant is not listed there.
func (r *Restaurant) SourceID(platform string) string {
	for _, s := range r.Sources {
		if s.Platform == platform {
			return s.ID
		}
	}
	return ""
}

// SourceListing is the per-platform slice of a merged restaurant.
type SourceListing struct {
	Platform    string
	ID          string
	Rating      *float64
	ReviewCount int
}

// ScoreFactors is the seven-factor score breakdown, each in [0,1].
type ScoreFactors struct {
	Rating      float64
	Volume      float64
	Recency     float64
	Consistency float64
	PriceValue  float64
	Distance    float64
	Uniqueness  float64
}

// Insights summarizes the full result set.
type Insights struct {
	Total          int
	AverageRating  float64
	VerifiedPercent float64
	ByPrice        map[string]int
	ByCuisine      map[string]int
	ByFeature      map[string]int
}

// AnalysisQuery identifies one restaurant across platforms for review
// analysis. An empty platform ID skips that platform.
type AnalysisQuery struct {
	GoogleID string
	YelpID   string
	Name     string
}

// Analysis is the unified review analysis for one restaurant.
type Analysis struct {
	DisplayName  string
	UnifiedScore float64
	TotalReviews int
	Confidence   int // 0-100
	Sentiment    SentimentSplit
	Themes       []ThemeSummary
	Trend        string // "improving", "declining", "stable"
	TopReviews   []TopReview
	SourcesUsed  int
	Quality      string // "high", "medium", "low", "very low"
	ReviewsBySrc map[string]int
	Message      string
	Narrative    *Narrative
}

// SentimentSplit is the sentiment distribution of a review set, in percent.
type SentimentSplit struct {
	Positive float64
	Neutral  float64
	Negative float64
}

// ThemeSummary aggregates what reviewers said about one theme.
type ThemeSummary struct {
	Theme          string
	Mentions       int
	AverageRating  float64
	SentimentScore float64
	Keywords       []string
	MentionPercent float64
}

// TopReview is one entry of the balanced top-review selection.
type TopReview struct {
	Platform     string
	Rating       float64
	Text         string
	Author       string
	Authenticity float64
	Synthetic    bool
}

// Narrative is the optional generative enrichment of an analysis.
type Narrative struct {
	Summary    string
	Highlights []string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// StaticListing is the input for an in-memory platform listing.
type StaticListing struct {
	ID          string
	Name        string
	Address     string
	Coordinate  *LatLon
	Rating      *float64
	ReviewCount int
	PriceTier   *int
	Cuisine     string
	Operational bool
	ImageURL    string
}

// StaticReview is the input for an in-memory platform review.
// Reviews built from it are flagged synthetic in analysis output.
type StaticReview struct {
	ListingID     string
	Rating        float64
	Text          string
	Author        string
	PostedAtUnix  int64 // 0 = undated
	AuthorReviews *int
}
