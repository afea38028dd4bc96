package analysis

// Theme is one of the four fixed review themes.
type Theme string

// The four themes, in canonical output order.
const (
	ThemeFood     Theme = "food"
	ThemeService  Theme = "service"
	ThemeAmbiance Theme = "ambiance"
	ThemeValue    Theme = "value"
)

// Themes returns the four fixed themes in canonical order.
func Themes() []Theme {
	return []Theme{ThemeFood, ThemeService, ThemeAmbiance, ThemeValue}
}

// Tiers holds the keyword tiers for one theme. A review mentions the theme
// if any tier keyword appears in its text (case-insensitive substring).
// The tier of the match steers the sentiment-adjusted theme score.
type Tiers struct {
	Positive []string
	Negative []string
	Neutral  []string
}

// Lexicon maps each theme to its keyword tiers. Kept as data rather than
// conditionals so the keyword lists are testable and extensible on their own.
type Lexicon map[Theme]Tiers

// DefaultLexicon returns the built-in theme keyword table.
func DefaultLexicon() Lexicon {
	return Lexicon{
		ThemeFood: {
			Positive: []string{"delicious", "tasty", "flavorful", "fresh", "perfectly cooked", "juicy", "mouthwatering"},
			Negative: []string{"bland", "overcooked", "undercooked", "stale", "greasy", "soggy", "tasteless", "cold food"},
			Neutral:  []string{"food", "dish", "meal", "menu", "plate", "portion", "taste", "flavor"},
		},
		ThemeService: {
			Positive: []string{"friendly", "attentive", "helpful", "welcoming", "quick service", "accommodating"},
			Negative: []string{"rude", "slow service", "ignored", "unfriendly", "inattentive", "forgot our"},
			Neutral:  []string{"service", "server", "waiter", "waitress", "staff", "host", "bartender"},
		},
		ThemeAmbiance: {
			Positive: []string{"cozy", "charming", "romantic", "beautiful decor", "great atmosphere", "lively"},
			Negative: []string{"loud", "cramped", "dirty", "dingy", "sticky", "run down", "too dark"},
			Neutral:  []string{"ambiance", "atmosphere", "decor", "vibe", "music", "seating", "interior"},
		},
		ThemeValue: {
			Positive: []string{"great value", "affordable", "worth it", "generous portion", "reasonably priced", "fair price"},
			Negative: []string{"overpriced", "expensive", "rip off", "tiny portion", "not worth", "pricey"},
			Neutral:  []string{"price", "value", "cost", "bill", "check", "money"},
		},
	}
}
