package autopilot

import (
	"fmt"
	"strings"

	"merchpilot/internal/models"
)

// Reason assembles the human-readable explanation attached to a price
// suggestion. Each clause triggers independently from the same facts the
// rules read, so the string is reproducible for identical inputs. It is
// descriptive only and never drives control flow.
func Reason(product models.Product, perf *models.PerformanceSnapshot, oldPrice, newPrice float64, event *models.SeasonalEvent) string {
	var b strings.Builder

	if newPrice > oldPrice {
		pct := (newPrice - oldPrice) / oldPrice * 100
		fmt.Fprintf(&b, "Price increase of %.1f%% recommended.", pct)
	} else if newPrice < oldPrice {
		pct := (oldPrice - newPrice) / oldPrice * 100
		fmt.Fprintf(&b, "Price decrease of %.1f%% recommended.", pct)
	} else {
		b.WriteString("No price change recommended.")
	}

	if perf != nil {
		if perf.ConversionRate < 0.02 {
			fmt.Fprintf(&b, " Conversion rate is weak (%.1f%%), a lower price should help demand.", perf.ConversionRate*100)
		} else if perf.ConversionRate > 0.08 {
			fmt.Fprintf(&b, " Conversion rate is strong (%.1f%%).", perf.ConversionRate*100)
		}
		if perf.ProfitMargin > 0.25 {
			fmt.Fprintf(&b, " Healthy profit margin (%.0f%%) leaves room to move.", perf.ProfitMargin*100)
		}
	}

	if product.InventoryQty < 5 {
		fmt.Fprintf(&b, " Only %d units left, scarcity protects margin.", product.InventoryQty)
	}

	if event != nil && event.MatchesTitle(product.Title) {
		name := event.DisplayName
		if name == "" {
			name = event.Name
		}
		fmt.Fprintf(&b, " Product matches the active %s event.", name)
	}

	return strings.TrimSpace(b.String())
}
