package review

import (
	"sort"
	"time"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
)

// trendBand is the dead zone around zero: the first-third / last-third
// average delta must exceed it before the trend leaves Stable.
const trendBand = 0.25

type datedRating struct {
	at     time.Time
	rating float64
}

// classifyTrend compares the average rating of the oldest third of the
// timestamped reviews against the newest third. Reviews without a timestamp
// are excluded; with fewer than analysis.MinTrendReviews usable reviews the
// trend defaults to Stable rather than guessing from noise.
func classifyTrend(reviews []review.Review) analysis.Trend {
	dated := make([]datedRating, 0, len(reviews))
	for i := range reviews {
		at, ok := reviews[i].PostedAt()
		if !ok {
			continue
		}
		dated = append(dated, datedRating{at: at, rating: reviews[i].Rating()})
	}
	if len(dated) < analysis.MinTrendReviews {
		return analysis.Stable
	}

	sort.SliceStable(dated, func(i, j int) bool { return dated[i].at.Before(dated[j].at) })

	third := len(dated) / 3
	oldest := averageRating(dated[:third])
	newest := averageRating(dated[len(dated)-third:])

	switch delta := newest - oldest; {
	case delta > trendBand:
		return analysis.Improving
	case delta < -trendBand:
		return analysis.Declining
	default:
		return analysis.Stable
	}
}

func averageRating(dated []datedRating) float64 {
	var sum float64
	for _, d := range dated {
		sum += d.rating
	}
	return sum / float64(len(dated))
}
