package review

import (
	"sort"
	"strings"

	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/domain/review"
	"github.com/dinerank/dinerank/internal/domain/source"
)

// maxTopReviews is the size of the balanced top-review selection.
const maxTopReviews = 5

// textLengthDivisor scales review length into the helpfulness rank so a long
// detailed review edges out a terse one at equal rating and authenticity.
const textLengthDivisor = 500

// duplicatePrefixLen is how much leading text two reviews by the same author
// must share before the second one is treated as a repost and skipped.
const duplicatePrefixLen = 40

// balancedTop selects up to limit reviews ranked by helpfulness, with a
// guarantee that every source contributing at least one review is represented.
// Without the guarantee a high-volume source would crowd the other out of the
// selection entirely.
func balancedTop(reviews []review.Review, limit int) []analysis.TopReview {
	ranked := make([]review.Review, len(reviews))
	copy(ranked, reviews)
	sort.SliceStable(ranked, func(i, j int) bool {
		return helpfulness(ranked[i]) > helpfulness(ranked[j])
	})

	chosen := make(map[int]bool, limit)
	var picked []int

	// First pass: the best non-duplicate review from each contributing
	// source, so a high-volume source cannot fill every slot.
	reserved := make(map[source.Source]bool)
	for i := range ranked {
		if len(picked) == limit {
			break
		}
		src := ranked[i].Source()
		if reserved[src] || isDuplicate(ranked[i], ranked, picked) {
			continue
		}
		reserved[src] = true
		chosen[i] = true
		picked = append(picked, i)
	}

	// Second pass: fill the remaining slots by rank, source-blind.
	for i := range ranked {
		if len(picked) == limit {
			break
		}
		if chosen[i] || isDuplicate(ranked[i], ranked, picked) {
			continue
		}
		chosen[i] = true
		picked = append(picked, i)
	}

	// Final order is by rank, not by pass.
	sort.Ints(picked)

	out := make([]analysis.TopReview, 0, len(picked))
	for _, i := range picked {
		out = append(out, analysis.TopReview{
			Source:       ranked[i].Source(),
			Rating:       ranked[i].Rating(),
			Text:         ranked[i].Text(),
			Author:       ranked[i].Author(),
			Authenticity: ranked[i].Authenticity(),
			Synthetic:    ranked[i].Synthetic(),
		})
	}
	return out
}

// helpfulness ranks a review for the top selection. Rating dominates,
// authenticity breaks ties between equal ratings, and text length nudges
// detailed reviews ahead of terse ones.
func helpfulness(r review.Review) float64 {
	return 2*r.Rating() + r.Authenticity() + float64(len(r.Text()))/textLengthDivisor
}

// isDuplicate reports whether r is a near-duplicate of an already selected
// review: same author and the same leading text, case-insensitive. Anonymous
// reviews never dedupe against each other.
func isDuplicate(r review.Review, ranked []review.Review, picked []int) bool {
	if r.Author() == "" {
		return false
	}
	for _, i := range picked {
		if r.Author() != ranked[i].Author() {
			continue
		}
		if prefix(r.Text()) == prefix(ranked[i].Text()) {
			return true
		}
	}
	return false
}

func prefix(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) > duplicatePrefixLen {
		return text[:duplicatePrefixLen]
	}
	return text
}
