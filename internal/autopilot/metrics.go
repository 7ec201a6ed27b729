package autopilot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopilot_runs_total",
		Help: "Completed autopilot runs by outcome.",
	}, []string{"status"})

	productsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopilot_products_analyzed_total",
		Help: "Products evaluated across all runs.",
	})

	priceSuggestions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopilot_price_suggestions_total",
		Help: "Price suggestions logged across all runs.",
	})

	pricesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopilot_prices_applied_total",
		Help: "Prices auto-applied in full mode.",
	})

	feedbackSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopilot_feedback_skips_total",
		Help: "Suggestions suppressed by merchant feedback.",
	})
)

func observeRun(summary *RunSummary, err error) {
	if err != nil {
		runsTotal.WithLabelValues("failed").Inc()
		return
	}
	runsTotal.WithLabelValues("completed").Inc()
	productsAnalyzed.Add(float64(summary.Analyzed))
	priceSuggestions.Add(float64(summary.PriceSuggestions))
	pricesApplied.Add(float64(summary.Applied))
	feedbackSkips.Add(float64(summary.SkippedByFeedback))
}
