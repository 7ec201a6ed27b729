package autopilot

import (
	"strings"
	"testing"

	"merchpilot/internal/models"
)

func TestReason_Deterministic(t *testing.T) {
	product := models.Product{Title: "Wool Scarf", InventoryQty: 3}
	perf := snapshot(0.10, 0.30)
	event := &models.SeasonalEvent{
		Name:        "winter_sale",
		DisplayName: "Winter Sale",
		Keywords:    models.StringList{"scarf"},
	}

	first := Reason(product, perf, 100.00, 108.00, event)
	second := Reason(product, perf, 100.00, 108.00, event)
	if first != second {
		t.Fatalf("Reason() is not reproducible:\n%q\n%q", first, second)
	}

	if first != strings.TrimSpace(first) {
		t.Errorf("Reason() has surrounding whitespace: %q", first)
	}

	for _, want := range []string{"increase of 8.0%", "strong", "margin", "3 units", "Winter Sale"} {
		if !strings.Contains(first, want) {
			t.Errorf("Reason() = %q, missing clause %q", first, want)
		}
	}
}

func TestReason_Decrease(t *testing.T) {
	product := models.Product{Title: "Desk Lamp", InventoryQty: 50}
	got := Reason(product, snapshot(0.01, 0.10), 100.00, 95.00, nil)

	if !strings.Contains(got, "decrease of 5.0%") {
		t.Errorf("Reason() = %q, want a decrease clause", got)
	}
	if !strings.Contains(got, "weak") {
		t.Errorf("Reason() = %q, want a weak conversion clause", got)
	}
}

func TestReason_NoSnapshot(t *testing.T) {
	product := models.Product{Title: "Desk Lamp", InventoryQty: 50}
	got := Reason(product, nil, 100.00, 100.00, nil)

	if got != "No price change recommended." {
		t.Errorf("Reason() = %q, want only the direction clause", got)
	}
}
