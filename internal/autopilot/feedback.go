package autopilot

import "merchpilot/internal/models"

// FeedbackTrend is the historical approval/rejection count for one
// (shop, product, action kind) triple.
type FeedbackTrend struct {
	Approved int
	Rejected int
}

// Trend counts approvals and rejections over the full feedback history.
func Trend(rows []models.AIFeedback) FeedbackTrend {
	var t FeedbackTrend
	for _, row := range rows {
		if row.Approved {
			t.Approved++
		} else {
			t.Rejected++
		}
	}
	return t
}

// Suppress reports whether the rejection history is lopsided enough to hold
// a suggestion back. Safe and normal risk suppress once rejections exceed
// twice the approvals; aggressive risk tolerates five times as many
// rejections before backing off. A product with no feedback at all is never
// suppressed, and the boundary itself (rejected == approved x factor) does
// not suppress.
func (t FeedbackTrend) Suppress(risk models.RiskLevel) bool {
	factor := 2
	if risk == models.RiskAggressive {
		factor = 5
	}
	return t.Rejected > t.Approved*factor
}
