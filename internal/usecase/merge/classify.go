package merge

import (
	"strings"

	"github.com/dinerank/dinerank/internal/domain/restaurant"
)

// Derived feature tags attached during merge and consumed by the scoring
// engine's uniqueness factor.
const (
	TagChain          = "chain"
	TagHiddenGem      = "hidden gem"
	TagChefDriven     = "chef-driven"
	TagCraftCocktails = "craft cocktails"
	TagGreatValue     = "great value"
)

// Price category labels derived from the ordinal tier.
var priceLabels = map[int]string{
	1: "budget",
	2: "moderate",
	3: "upscale",
	4: "luxury",
}

// genericCuisines are labels too vague to prefer over a platform's more
// specific one.
var genericCuisines = map[string]bool{
	"": true, "restaurant": true, "food": true, "point_of_interest": true,
	"establishment": true, "restaurants": true,
}

// cuisineStyles maps canonical style labels to the keywords that imply them
// in a platform cuisine label or restaurant name. First hit in order wins.
var cuisineStyles = []struct {
	style    string
	keywords []string
}{
	{"mexican", []string{"mexican", "taco", "taqueria", "burrito", "cantina"}},
	{"italian", []string{"italian", "pasta", "trattoria", "osteria", "ristorante"}},
	{"pizza", []string{"pizza", "pizzeria"}},
	{"japanese", []string{"japanese", "sushi", "ramen", "izakaya", "omakase"}},
	{"chinese", []string{"chinese", "szechuan", "sichuan", "dim sum", "dumpling"}},
	{"thai", []string{"thai"}},
	{"vietnamese", []string{"vietnamese", "pho", "banh mi"}},
	{"korean", []string{"korean", "bibimbap", "kbbq"}},
	{"indian", []string{"indian", "curry", "tandoori", "masala"}},
	{"mediterranean", []string{"mediterranean", "greek", "falafel", "shawarma", "kebab"}},
	{"french", []string{"french", "brasserie", "creperie"}},
	{"seafood", []string{"seafood", "oyster", "fish", "crab", "lobster"}},
	{"steakhouse", []string{"steak", "steakhouse", "chophouse"}},
	{"burgers", []string{"burger"}},
	{"barbecue", []string{"bbq", "barbecue", "smokehouse"}},
	{"american", []string{"american", "diner", "gastropub"}},
}

// chainNames marks well-known large chains (lower-cased, matched as
// substrings of the normalized name).
var chainNames = []string{
	"mcdonald", "burger king", "subway", "kfc", "taco bell", "wendy",
	"chipotle", "domino", "pizza hut", "starbucks", "dunkin",
	"olive garden", "applebee", "chili's", "panera", "panda express",
}

// chefKeywords and cocktailKeywords drive the chef-driven and
// craft-cocktails tags from name/cuisine text.
var (
	chefKeywords     = []string{"chef", "tasting menu", "omakase", "farm to table", "farm-to-table"}
	cocktailKeywords = []string{"cocktail", "speakeasy", "mixology", "distillery"}
)

// Tag thresholds.
const (
	chainReviewCount    = 5000 // review volume alone marks a large chain
	hiddenGemMinRating  = 4.5
	hiddenGemMinReviews = 10
	hiddenGemMaxReviews = 100
	greatValueMaxTier   = 2
	greatValueMinRating = 4.3
)

// classify fills the derived cuisine style, price category and feature tags
// on a merged restaurant under construction. Deterministic over the
// reconciled fields.
func classify(p *restaurant.Params, cuisine string) {
	text := strings.ToLower(p.Name + " " + cuisine)

	p.Cuisine = deriveStyle(text, cuisine)

	tmp := restaurant.Reconstruct(*p)
	if tier, ok := tmp.PriceTier(); ok {
		p.PriceLabel = priceLabels[tier]
	}

	rating, hasRating := tmp.Rating()
	total := tmp.TotalReviews()

	var tags []string
	if containsAny(text, chainNames) || total > chainReviewCount {
		tags = append(tags, TagChain)
	}
	if hasRating && rating >= hiddenGemMinRating &&
		total >= hiddenGemMinReviews && total <= hiddenGemMaxReviews {
		tags = append(tags, TagHiddenGem)
	}
	if containsAny(text, chefKeywords) {
		tags = append(tags, TagChefDriven)
	}
	if containsAny(text, cocktailKeywords) {
		tags = append(tags, TagCraftCocktails)
	}
	if tier, ok := tmp.PriceTier(); ok && tier <= greatValueMaxTier &&
		hasRating && rating >= greatValueMinRating {
		tags = append(tags, TagGreatValue)
	}
	p.Features = tags
}

// deriveStyle canonicalizes the cuisine label; unrecognized non-generic
// labels pass through lower-cased.
func deriveStyle(text, cuisine string) string {
	for _, cs := range cuisineStyles {
		if containsAny(text, cs.keywords) {
			return cs.style
		}
	}
	lower := strings.ToLower(strings.TrimSpace(cuisine))
	if genericCuisines[lower] {
		return ""
	}
	return lower
}

// preferCuisine picks the more specific of the two platform labels.
func preferCuisine(a, b string) string {
	if !genericCuisines[strings.ToLower(strings.TrimSpace(a))] {
		return a
	}
	if !genericCuisines[strings.ToLower(strings.TrimSpace(b))] {
		return b
	}
	return a
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
