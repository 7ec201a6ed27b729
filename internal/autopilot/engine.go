package autopilot

import (
	"context"
	"fmt"
	"time"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
)

// RunSummary aggregates the outcome of one autopilot pass over a shop.
type RunSummary struct {
	Analyzed             int `json:"analyzed"`
	PriceSuggestions     int `json:"price_suggestions"`
	Applied              int `json:"applied"`
	SkippedByFeedback    int `json:"skipped_due_to_feedback"`
	MarketingSuggestions int `json:"marketing_suggestions"`
}

// Engine runs the autopilot decision pipeline for one shop at a time.
type Engine struct {
	catalog  CatalogStore
	perf     PerformanceStore
	events   EventStore
	config   ConfigStore
	feedback FeedbackStore
	actions  ActionStore
	updater  PriceUpdater
	logger   *logger.Logger

	applyTimeout time.Duration
}

func NewEngine(
	catalog CatalogStore,
	perf PerformanceStore,
	events EventStore,
	config ConfigStore,
	feedback FeedbackStore,
	actions ActionStore,
	updater PriceUpdater,
	applyTimeout time.Duration,
	log *logger.Logger,
) *Engine {
	if applyTimeout <= 0 {
		applyTimeout = 10 * time.Second
	}
	return &Engine{
		catalog:      catalog,
		perf:         perf,
		events:       events,
		config:       config,
		feedback:     feedback,
		actions:      actions,
		updater:      updater,
		applyTimeout: applyTimeout,
		logger:       log,
	}
}

// Run evaluates every product of the shop and returns the aggregate summary.
// A config or catalog read failure aborts the run; everything that can go
// wrong for a single product is logged and the loop moves on.
func (e *Engine) Run(ctx context.Context, shopID string) (*RunSummary, error) {
	cfg, err := e.config.Get(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop config: %w", err)
	}

	products, err := e.catalog.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("shop %s has no products to analyze", shopID)
	}

	event, err := e.events.Active(ctx)
	if err != nil {
		// A missing event is a neutral signal, not a run failure
		e.logger.Error("Failed to load active event, continuing without: %v", err)
		event = nil
	}

	summary := &RunSummary{}
	for i := range products {
		e.evaluateProduct(ctx, shopID, &products[i], cfg, event, summary)
	}

	e.logger.Info("Autopilot run for shop %s: analyzed=%d suggestions=%d applied=%d skipped=%d marketing=%d",
		shopID, summary.Analyzed, summary.PriceSuggestions, summary.Applied,
		summary.SkippedByFeedback, summary.MarketingSuggestions)

	return summary, nil
}

func (e *Engine) evaluateProduct(ctx context.Context, shopID string, product *models.Product, cfg *models.ShopConfig, event *models.SeasonalEvent, summary *RunSummary) {
	summary.Analyzed++

	perf, err := e.perf.Get(ctx, shopID, product.ID)
	if err != nil {
		e.logger.Error("Failed to load snapshot for product %s, treating as neutral: %v", product.ID, err)
		perf = nil
	}

	e.evaluatePrice(ctx, shopID, product, perf, cfg, event, summary)
	e.evaluateAdBoost(ctx, shopID, product, perf, cfg, summary)
}

func (e *Engine) evaluatePrice(ctx context.Context, shopID string, product *models.Product, perf *models.PerformanceSnapshot, cfg *models.ShopConfig, event *models.SeasonalEvent, summary *RunSummary) {
	base, rule := BasePrice(RuleFacts{
		Price:        product.Price,
		InventoryQty: product.InventoryQty,
		Title:        product.Title,
		Perf:         perf,
		Event:        event,
	})
	if base == product.Price {
		return
	}

	trend := e.trendFor(ctx, shopID, product.ID, models.ActionPriceAdjustment)
	if trend.Suppress(cfg.RiskLevel) {
		e.logAction(ctx, shopID, product.ID, models.ActionStatusSkipped, models.FeedbackSkipDetail{
			SkippedKind: models.ActionPriceAdjustment,
			Approved:    trend.Approved,
			Rejected:    trend.Rejected,
			RiskLevel:   cfg.RiskLevel,
		}, "Suggestion withheld: merchants rejected this kind of change too often.")
		summary.SkippedByFeedback++
		return
	}

	final := ScalePrice(product.Price, base, cfg.RiskLevel)
	reason := Reason(*product, perf, product.Price, final, event)

	e.logAction(ctx, shopID, product.ID, models.ActionStatusSuggested, models.PriceAdjustmentDetail{
		OldPrice:  product.Price,
		NewPrice:  final,
		BasePrice: base,
		Rule:      rule,
		Mode:      cfg.Mode,
		RiskLevel: cfg.RiskLevel,
	}, reason)
	summary.PriceSuggestions++

	if cfg.Mode != models.ModeFull {
		return
	}

	applyCtx, cancel := context.WithTimeout(ctx, e.applyTimeout)
	err := e.updater.UpdatePrice(applyCtx, shopID, product.ExternalID, final)
	cancel()
	if err != nil {
		e.logger.Error("Failed to apply price for product %s: %v", product.ID, err)
		return
	}

	if err := e.catalog.UpdatePrice(ctx, shopID, product.ID, final); err != nil {
		e.logger.Error("Failed to store applied price for product %s: %v", product.ID, err)
	}

	e.logAction(ctx, shopID, product.ID, models.ActionStatusCompleted, models.PriceAppliedDetail{
		OldPrice: product.Price,
		NewPrice: final,
	}, reason)
	product.Price = final
	summary.Applied++
}

func (e *Engine) evaluateAdBoost(ctx context.Context, shopID string, product *models.Product, perf *models.PerformanceSnapshot, cfg *models.ShopConfig, summary *RunSummary) {
	if perf == nil {
		return
	}
	minConv, minMargin := adBoostThresholds(cfg.RiskLevel)
	if perf.ConversionRate <= minConv || perf.ProfitMargin <= minMargin {
		return
	}

	trend := e.trendFor(ctx, shopID, product.ID, models.ActionAdBoostSuggested)
	if trend.Suppress(cfg.RiskLevel) {
		e.logAction(ctx, shopID, product.ID, models.ActionStatusSkipped, models.FeedbackSkipDetail{
			SkippedKind: models.ActionAdBoostSuggested,
			Approved:    trend.Approved,
			Rejected:    trend.Rejected,
			RiskLevel:   cfg.RiskLevel,
		}, "Ad boost withheld: merchants rejected this suggestion too often.")
		return
	}

	e.logAction(ctx, shopID, product.ID, models.ActionStatusSuggested, models.AdBoostDetail{
		ConversionRate: perf.ConversionRate,
		ProfitMargin:   perf.ProfitMargin,
		RiskLevel:      cfg.RiskLevel,
	}, fmt.Sprintf("Strong performer: %.1f%% conversion at %.0f%% margin, worth boosting ad spend.",
		perf.ConversionRate*100, perf.ProfitMargin*100))
	summary.MarketingSuggestions++
}

// trendFor reads the feedback history, falling back to a neutral trend when
// the read fails so one bad query cannot sink the whole run.
func (e *Engine) trendFor(ctx context.Context, shopID, productID string, kind models.ActionKind) FeedbackTrend {
	rows, err := e.feedback.ListFor(ctx, shopID, productID, kind)
	if err != nil {
		e.logger.Error("Failed to load feedback for product %s kind %s: %v", productID, kind, err)
		return FeedbackTrend{}
	}
	return Trend(rows)
}

// logAction appends one audit row. The trail is best effort: a failed write
// is logged and the run keeps going.
func (e *Engine) logAction(ctx context.Context, shopID, productID string, status models.ActionStatus, detail models.ActionDetail, reason string) {
	payload, err := models.DetailJSONB(detail)
	if err != nil {
		e.logger.Error("Failed to encode action detail for product %s: %v", productID, err)
		payload = nil
	}
	action := &models.AIAction{
		ShopID:    shopID,
		ProductID: productID,
		Kind:      detail.Kind(),
		Detail:    payload,
		Reason:    reason,
		Status:    status,
	}
	if err := e.actions.Append(ctx, action); err != nil {
		e.logger.Error("Failed to log %s action for product %s: %v", detail.Kind(), productID, err)
	}
}
