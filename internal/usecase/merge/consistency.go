package merge

import "github.com/dinerank/dinerank/internal/domain/listing"

// Consistency blend parameters. Rating agreement dominates; the review-count
// ratio tempers agreement between wildly different sample sizes.
const (
	agreementWeight     = 0.7
	countRatioWeight    = 0.3
	thinSignalPenalty   = 0.8 // one side under 10 reviews while combined exceeds 20
	thinSignalMinCount  = 10
	thinSignalCombined  = 20
	consistencyFallback = 0.8 // either side missing a rating
)

// platformConsistency scores how well the two platforms agree on a matched
// restaurant, in [0,1].
func platformConsistency(g, y listing.Listing) float64 {
	rg, okG := g.Rating()
	ry, okY := y.Rating()
	if !okG || !okY {
		return consistencyFallback
	}

	diff := rg - ry
	if diff < 0 {
		diff = -diff
	}
	agreement := 1 - diff/4

	minCount, maxCount := g.ReviewCount(), y.ReviewCount()
	if minCount > maxCount {
		minCount, maxCount = maxCount, minCount
	}
	if minCount < thinSignalMinCount && minCount+maxCount > thinSignalCombined {
		agreement *= thinSignalPenalty
	}

	ratio := 0.0
	if maxCount > 0 {
		ratio = float64(minCount) / float64(maxCount)
	}

	c := agreementWeight*agreement + countRatioWeight*ratio
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
