package order

// Order is the result ordering strategy.
type Order string

// Sort mode constants.
const (
	// Smart sorts by the weighted composite score (default).
	Smart Order = "smart"
	// Rating sorts by the blended platform rating.
	Rating Order = "rating"
	// Distance sorts by proximity to the caller's coordinate.
	Distance Order = "distance"
	// Reviews sorts by combined review volume.
	Reviews Order = "reviews"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Smart || o == Rating || o == Distance || o == Reviews
}
