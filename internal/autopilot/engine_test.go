package autopilot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
)

type fakeCatalog struct {
	products []models.Product
	updated  map[string]float64
	err      error
}

func (f *fakeCatalog) ListByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalog) UpdatePrice(ctx context.Context, shopID, productID string, price float64) error {
	if f.updated == nil {
		f.updated = map[string]float64{}
	}
	f.updated[productID] = price
	return nil
}

type fakePerf struct {
	snaps map[string]*models.PerformanceSnapshot
	err   error
}

func (f *fakePerf) Get(ctx context.Context, shopID, productID string) (*models.PerformanceSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snaps[productID], nil
}

type fakeEvents struct {
	event *models.SeasonalEvent
	err   error
}

func (f *fakeEvents) Active(ctx context.Context) (*models.SeasonalEvent, error) {
	return f.event, f.err
}

type fakeConfig struct {
	cfg *models.ShopConfig
	err error
}

func (f *fakeConfig) Get(ctx context.Context, shopID string) (*models.ShopConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

type fakeFeedback struct {
	rows map[string][]models.AIFeedback // productID + "/" + kind
}

func (f *fakeFeedback) ListFor(ctx context.Context, shopID, productID string, kind models.ActionKind) ([]models.AIFeedback, error) {
	return f.rows[productID+"/"+string(kind)], nil
}

type fakeActions struct {
	appended []models.AIAction
	err      error
}

func (f *fakeActions) Append(ctx context.Context, action *models.AIAction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, *action)
	return nil
}

func (f *fakeActions) byKind(kind models.ActionKind) []models.AIAction {
	var out []models.AIAction
	for _, a := range f.appended {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

type fakeUpdater struct {
	calls []string
	err   error
}

func (f *fakeUpdater) UpdatePrice(ctx context.Context, shopID, externalID string, price float64) error {
	f.calls = append(f.calls, fmt.Sprintf("%s:%.2f", externalID, price))
	return f.err
}

type fakeRuns struct {
	records []models.AutopilotRun
}

func (f *fakeRuns) Create(ctx context.Context, run *models.AutopilotRun) error {
	f.records = append(f.records, *run)
	return nil
}

type engineFixture struct {
	catalog  *fakeCatalog
	perf     *fakePerf
	events   *fakeEvents
	config   *fakeConfig
	feedback *fakeFeedback
	actions  *fakeActions
	updater  *fakeUpdater
	engine   *Engine
}

func newFixture(mode models.AutomationMode, risk models.RiskLevel, products ...models.Product) *engineFixture {
	f := &engineFixture{
		catalog:  &fakeCatalog{products: products},
		perf:     &fakePerf{snaps: map[string]*models.PerformanceSnapshot{}},
		events:   &fakeEvents{},
		config:   &fakeConfig{cfg: &models.ShopConfig{ShopID: "shop-1", Mode: mode, RiskLevel: risk}},
		feedback: &fakeFeedback{rows: map[string][]models.AIFeedback{}},
		actions:  &fakeActions{},
		updater:  &fakeUpdater{},
	}
	f.engine = NewEngine(f.catalog, f.perf, f.events, f.config, f.feedback, f.actions, f.updater, time.Second, logger.New("error"))
	return f
}

func strongPerformerProduct() models.Product {
	return models.Product{
		ID:           "prod-1",
		ShopID:       "shop-1",
		ExternalID:   "shopify_42",
		Title:        "Wireless Earbuds",
		Price:        100.00,
		InventoryQty: 20,
	}
}

func TestRun_SuggestsWithoutApplyingInAssistMode(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Analyzed != 1 || summary.PriceSuggestions != 1 || summary.Applied != 0 {
		t.Errorf("Run() summary = %+v, want 1 analyzed, 1 suggestion, 0 applied", summary)
	}

	suggestions := f.actions.byKind(models.ActionPriceAdjustment)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 price_adjustment action, got %d", len(suggestions))
	}
	if suggestions[0].Status != models.ActionStatusSuggested {
		t.Errorf("suggestion status = %s, want suggested", suggestions[0].Status)
	}
	if got := suggestions[0].Detail["new_price"]; got != 108.00 {
		t.Errorf("suggestion new_price = %v, want 108.00", got)
	}
	if len(f.updater.calls) != 0 {
		t.Errorf("external update was called in assist mode: %v", f.updater.calls)
	}
	// Strong performer also clears the normal ad boost bar
	if summary.MarketingSuggestions != 1 {
		t.Errorf("marketing suggestions = %d, want 1", summary.MarketingSuggestions)
	}
}

func TestRun_SafeRiskHalvesDelta(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskSafe, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)

	if _, err := f.engine.Run(context.Background(), "shop-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	suggestions := f.actions.byKind(models.ActionPriceAdjustment)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 price_adjustment action, got %d", len(suggestions))
	}
	if got := suggestions[0].Detail["new_price"]; got != 104.00 {
		t.Errorf("suggestion new_price = %v, want 104.00 under safe risk", got)
	}
	if got := suggestions[0].Detail["base_price"]; got != 108.00 {
		t.Errorf("suggestion base_price = %v, want 108.00", got)
	}
}

func TestRun_FeedbackSuppressesSuggestion(t *testing.T) {
	f := newFixture(models.ModeFull, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)
	f.feedback.rows["prod-1/"+string(models.ActionPriceAdjustment)] = feedbackRows(3, 7)

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.SkippedByFeedback != 1 || summary.PriceSuggestions != 0 {
		t.Errorf("Run() summary = %+v, want the suggestion skipped", summary)
	}
	if len(f.updater.calls) != 0 {
		t.Errorf("external update must not run for a suppressed suggestion: %v", f.updater.calls)
	}

	skips := f.actions.byKind(models.ActionPriceSkippedFeedback)
	if len(skips) != 1 {
		t.Fatalf("expected 1 skip action, got %d", len(skips))
	}
	if skips[0].Status != models.ActionStatusSkipped {
		t.Errorf("skip status = %s, want skipped", skips[0].Status)
	}
	if got := skips[0].Detail["rejected"]; got != float64(7) {
		t.Errorf("skip rejected = %v, want 7", got)
	}
}

func TestRun_FullModeAppliesPrice(t *testing.T) {
	f := newFixture(models.ModeFull, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Applied != 1 {
		t.Errorf("Run() applied = %d, want 1", summary.Applied)
	}
	if len(f.updater.calls) != 1 || f.updater.calls[0] != "shopify_42:108.00" {
		t.Errorf("updater calls = %v, want one call for shopify_42 at 108.00", f.updater.calls)
	}
	if f.catalog.updated["prod-1"] != 108.00 {
		t.Errorf("local price not updated, got %v", f.catalog.updated)
	}

	applied := f.actions.byKind(models.ActionPriceApplied)
	if len(applied) != 1 {
		t.Fatalf("expected 1 price_applied action, got %d", len(applied))
	}
	if applied[0].Status != models.ActionStatusCompleted {
		t.Errorf("applied status = %s, want completed", applied[0].Status)
	}
	// The applied record must carry the same prices as the suggestion
	suggestion := f.actions.byKind(models.ActionPriceAdjustment)[0]
	if applied[0].Detail["old_price"] != suggestion.Detail["old_price"] ||
		applied[0].Detail["new_price"] != suggestion.Detail["new_price"] {
		t.Errorf("applied detail %v does not match suggestion %v", applied[0].Detail, suggestion.Detail)
	}
}

func TestRun_ApplyFailureDoesNotAbort(t *testing.T) {
	second := strongPerformerProduct()
	second.ID = "prod-2"
	second.ExternalID = "shopify_43"

	f := newFixture(models.ModeFull, models.RiskAggressive, strongPerformerProduct(), second)
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)
	f.perf.snaps["prod-2"] = snapshot(0.10, 0.30)
	f.updater.err = errors.New("502 bad gateway")

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Analyzed != 2 {
		t.Errorf("Run() analyzed = %d, want 2 (loop must continue past the failure)", summary.Analyzed)
	}
	if summary.PriceSuggestions != 2 || summary.Applied != 0 {
		t.Errorf("Run() summary = %+v, want 2 suggestions and 0 applied", summary)
	}
	if len(f.actions.byKind(models.ActionPriceApplied)) != 0 {
		t.Error("price_applied must not be logged when the external update fails")
	}
	if len(f.actions.byKind(models.ActionPriceAdjustment)) != 2 {
		t.Error("both suggestions should still be logged")
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)

	first, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if *first != *second {
		t.Errorf("re-run changed the outcome: first %+v, second %+v", first, second)
	}

	suggestions := f.actions.byKind(models.ActionPriceAdjustment)
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions across both runs, got %d", len(suggestions))
	}
	if suggestions[0].Detail["new_price"] != suggestions[1].Detail["new_price"] {
		t.Errorf("re-run produced a different price: %v vs %v",
			suggestions[0].Detail["new_price"], suggestions[1].Detail["new_price"])
	}
}

func TestRun_ConfigFailureIsFatal(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	f.config.err = errors.New("connection refused")

	if _, err := f.engine.Run(context.Background(), "shop-1"); err == nil {
		t.Fatal("Run() should fail when the shop config cannot be read")
	}
}

func TestRun_EmptyCatalogIsFatal(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal)

	if _, err := f.engine.Run(context.Background(), "shop-1"); err == nil {
		t.Fatal("Run() should fail for a shop with no products")
	}
}

func TestRun_ActionLogFailureIsRecovered(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)
	f.actions.err = errors.New("disk full")

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v, audit writes are best effort", err)
	}
	if summary.PriceSuggestions != 1 {
		t.Errorf("Run() suggestions = %d, want 1 despite the log failure", summary.PriceSuggestions)
	}
}

func TestRun_SnapshotReadFailureIsNeutral(t *testing.T) {
	product := strongPerformerProduct()
	product.InventoryQty = 20
	f := newFixture(models.ModeAssist, models.RiskNormal, product)
	f.perf.err = errors.New("timeout")

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.PriceSuggestions != 0 || summary.MarketingSuggestions != 0 {
		t.Errorf("Run() summary = %+v, want no suggestions when the snapshot read fails", summary)
	}
}

func TestRun_AdBoostSuppressedByFeedback(t *testing.T) {
	f := newFixture(models.ModeManual, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)
	f.feedback.rows["prod-1/"+string(models.ActionAdBoostSuggested)] = feedbackRows(1, 3)

	summary, err := f.engine.Run(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.MarketingSuggestions != 0 {
		t.Errorf("marketing suggestions = %d, want 0 when suppressed", summary.MarketingSuggestions)
	}
	if len(f.actions.byKind(models.ActionAdBoostSkippedFeedback)) != 1 {
		t.Error("expected one ad_boost_skipped_due_to_feedback action")
	}
}

func TestRunner_PersistsRunRecord(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	f.perf.snaps["prod-1"] = snapshot(0.10, 0.30)
	runs := &fakeRuns{}
	runner := NewRunner(f.engine, runs, logger.New("error"))

	summary, err := runner.RunShop(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("RunShop() error = %v", err)
	}

	if len(runs.records) != 1 {
		t.Fatalf("expected 1 run record, got %d", len(runs.records))
	}
	record := runs.records[0]
	if record.Status != models.RunStatusCompleted {
		t.Errorf("run status = %s, want completed", record.Status)
	}
	if record.PriceSuggestions != summary.PriceSuggestions || record.Analyzed != summary.Analyzed {
		t.Errorf("run record %+v does not match summary %+v", record, summary)
	}
}

func TestRunner_RecordsFailedRun(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal)
	runs := &fakeRuns{}
	runner := NewRunner(f.engine, runs, logger.New("error"))

	if _, err := runner.RunShop(context.Background(), "shop-1"); err == nil {
		t.Fatal("RunShop() should surface the empty-catalog failure")
	}

	if len(runs.records) != 1 {
		t.Fatalf("expected 1 run record, got %d", len(runs.records))
	}
	if runs.records[0].Status != models.RunStatusFailed {
		t.Errorf("run status = %s, want failed", runs.records[0].Status)
	}
	if runs.records[0].Error == nil {
		t.Error("failed run record should carry the error message")
	}
}

func TestRunner_RejectsOverlappingRuns(t *testing.T) {
	f := newFixture(models.ModeAssist, models.RiskNormal, strongPerformerProduct())
	runs := &fakeRuns{}
	runner := NewRunner(f.engine, runs, logger.New("error"))

	lock := runner.lockFor("shop-1")
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if _, err := runner.RunShop(context.Background(), "shop-1"); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("RunShop() error = %v, want ErrRunInProgress while the shop is locked", err)
	}
}
