package rank

import (
	"github.com/dinerank/dinerank/internal/domain/restaurant"
	"github.com/dinerank/dinerank/internal/domain/score"
	"github.com/dinerank/dinerank/internal/usecase/merge"
)

// maxReasons caps the recommendation labels per restaurant.
const maxReasons = 3

// reasonRules is the fixed priority list of recommendation labels. The first
// rules to fire win the (at most) three slots.
var reasonRules = []struct {
	label string
	fires func(r *restaurant.Restaurant, v score.Vector, hasNear bool) bool
}{
	{"Exceptional ratings", func(_ *restaurant.Restaurant, v score.Vector, _ bool) bool {
		return v.Rating > 0.85
	}},
	{"Consistent across platforms", func(r *restaurant.Restaurant, v score.Vector, _ bool) bool {
		return r.CrossSourceVerified() && v.Consistency > 0.8
	}},
	{"Widely reviewed", func(_ *restaurant.Restaurant, v score.Vector, _ bool) bool {
		return v.Volume > 0.8
	}},
	{"Hidden gem", func(r *restaurant.Restaurant, _ score.Vector, _ bool) bool {
		return r.HasFeature(merge.TagHiddenGem)
	}},
	{"Great value", func(_ *restaurant.Restaurant, v score.Vector, _ bool) bool {
		return v.PriceValue > 0.75
	}},
	{"Close to you", func(_ *restaurant.Restaurant, v score.Vector, hasNear bool) bool {
		return hasNear && v.Distance >= 0.8
	}},
	{"Chef-driven kitchen", func(r *restaurant.Restaurant, _ score.Vector, _ bool) bool {
		return r.HasFeature(merge.TagChefDriven)
	}},
}

// reasons returns up to three human-readable labels explaining why a
// restaurant ranks where it does.
func reasons(r *restaurant.Restaurant, v score.Vector, hasNear bool) []string {
	var out []string
	for _, rule := range reasonRules {
		if rule.fires(r, v, hasNear) {
			out = append(out, rule.label)
			if len(out) == maxReasons {
				break
			}
		}
	}
	return out
}
