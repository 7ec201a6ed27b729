package autopilot

import (
	"math"

	"merchpilot/internal/models"
)

// RuleFacts are the inputs to the base price computation for one product.
// Perf and Event may be nil; rules that read them then never fire.
type RuleFacts struct {
	Price        float64
	InventoryQty int
	Title        string
	Perf         *models.PerformanceSnapshot
	Event        *models.SeasonalEvent
}

type priceRule struct {
	name       string
	multiplier float64
	matches    func(f RuleFacts) bool
}

// priceRules is evaluated in order and each matching rule replaces the
// candidate outright. The last match wins, so rules later in the slice take
// precedence over earlier ones.
var priceRules = []priceRule{
	{
		name:       "strong_performer",
		multiplier: 1.08,
		matches: func(f RuleFacts) bool {
			return f.Perf != nil && f.Perf.ProfitMargin > 0.25 && f.Perf.ConversionRate > 0.08
		},
	},
	{
		name:       "weak_conversion",
		multiplier: 0.95,
		matches: func(f RuleFacts) bool {
			return f.Perf != nil && f.Perf.ConversionRate < 0.02
		},
	},
	{
		name:       "low_inventory",
		multiplier: 1.10,
		matches: func(f RuleFacts) bool {
			return f.InventoryQty < 5
		},
	},
	{
		name:       "seasonal_demand",
		multiplier: 1.15,
		matches: func(f RuleFacts) bool {
			return f.Event != nil && f.Event.MatchesTitle(f.Title)
		},
	},
}

// BasePrice computes the risk-independent candidate price and the name of
// the winning rule. When no rule matches the current price is returned
// exactly, without a rounding re-write, and the rule name is empty.
func BasePrice(f RuleFacts) (float64, string) {
	candidate := f.Price
	winner := ""
	for _, rule := range priceRules {
		if rule.matches(f) {
			candidate = round2(f.Price * rule.multiplier)
			winner = rule.name
		}
	}
	return candidate, winner
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
