package review

import (
	"math"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
)

// Confidence component caps. Volume scales with review count up to
// volumeCap, source diversity contributes a fixed step, and the average
// authenticity of the set contributes the rest.
const (
	volumeCap          = 35.0
	volumePerReview    = 1.75
	diversityOneSource = 25.0
	diversityTwoSource = 35.0
	authenticityScale  = 30.0
)

// Quality bucket thresholds, applied to the raw (uncapped) confidence sum.
const (
	qualityHighMin   = 80
	qualityMediumMin = 60
	qualityLowMin    = 35
)

type confidence struct {
	volume       float64
	diversity    float64
	authenticity float64
}

func (c confidence) total() int {
	return int(math.Round(c.volume + c.diversity + c.authenticity))
}

func confidenceComponents(reviews []review.Review, sourcesUsed int) confidence {
	c := confidence{
		volume:    math.Min(volumeCap, float64(len(reviews))*volumePerReview),
		diversity: diversityOneSource,
	}
	if sourcesUsed >= 2 {
		c.diversity = diversityTwoSource
	}
	var authSum float64
	for i := range reviews {
		authSum += reviews[i].Authenticity()
	}
	c.authenticity = authSum / float64(len(reviews)) * authenticityScale
	return c
}

func qualityLabel(raw int) analysis.Quality {
	switch {
	case raw >= qualityHighMin:
		return analysis.QualityHigh
	case raw >= qualityMediumMin:
		return analysis.QualityMedium
	case raw >= qualityLowMin:
		return analysis.QualityLow
	default:
		return analysis.QualityVeryLow
	}
}
