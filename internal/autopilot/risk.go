package autopilot

import "merchpilot/internal/models"

// riskDeltaFactor maps a risk level to the fraction of the base delta that
// is actually proposed.
func riskDeltaFactor(risk models.RiskLevel) float64 {
	switch risk {
	case models.RiskSafe:
		return 0.5
	case models.RiskAggressive:
		return 1.5
	default:
		return 1.0
	}
}

// ScalePrice turns the base candidate into the final proposed price for the
// given risk level. A zero delta is never scaled: when base equals old the
// old price comes back untouched. Scaling shrinks or grows the delta but
// never flips its sign.
func ScalePrice(oldPrice, basePrice float64, risk models.RiskLevel) float64 {
	if basePrice == oldPrice {
		return oldPrice
	}
	delta := (basePrice - oldPrice) * riskDeltaFactor(risk)
	return round2(oldPrice + delta)
}

// adBoostThresholds returns the (conversion rate, profit margin) floor a
// product must clear before an ad boost is suggested. Aggressive shops get a
// lower bar and therefore more suggestions.
func adBoostThresholds(risk models.RiskLevel) (float64, float64) {
	switch risk {
	case models.RiskSafe:
		return 0.10, 0.30
	case models.RiskAggressive:
		return 0.05, 0.20
	default:
		return 0.08, 0.25
	}
}
