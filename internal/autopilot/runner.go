package autopilot

import (
	"context"
	"errors"
	"sync"
	"time"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
)

// ErrRunInProgress is returned when a run is requested for a shop that is
// already mid-run. Callers (scheduler, API) treat it as a skip, not a
// failure.
var ErrRunInProgress = errors.New("autopilot run already in progress for shop")

// Runner serializes runs per shop and persists the run record. Two triggers
// for the same shop never execute concurrently within this process.
type Runner struct {
	engine *Engine
	runs   RunStore
	logger *logger.Logger
	locks  sync.Map // shopID -> *shopLock
}

type shopLock struct {
	mu sync.Mutex
}

func NewRunner(engine *Engine, runs RunStore, log *logger.Logger) *Runner {
	return &Runner{
		engine: engine,
		runs:   runs,
		logger: log,
	}
}

func (r *Runner) lockFor(shopID string) *shopLock {
	actual, _ := r.locks.LoadOrStore(shopID, &shopLock{})
	return actual.(*shopLock)
}

// RunShop executes one autopilot pass and records it. The run record write
// is best effort; the summary is returned to the caller either way.
func (r *Runner) RunShop(ctx context.Context, shopID string) (*RunSummary, error) {
	lock := r.lockFor(shopID)
	if !lock.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer lock.mu.Unlock()

	started := time.Now()
	summary, err := r.engine.Run(ctx, shopID)
	finished := time.Now()

	observeRun(summary, err)

	record := &models.AutopilotRun{
		ShopID:     shopID,
		Status:     models.RunStatusCompleted,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err != nil {
		msg := err.Error()
		record.Status = models.RunStatusFailed
		record.Error = &msg
	} else {
		record.Analyzed = summary.Analyzed
		record.PriceSuggestions = summary.PriceSuggestions
		record.Applied = summary.Applied
		record.SkippedByFeedback = summary.SkippedByFeedback
		record.MarketingSuggestions = summary.MarketingSuggestions
	}
	if createErr := r.runs.Create(ctx, record); createErr != nil {
		r.logger.Error("Failed to persist run record for shop %s: %v", shopID, createErr)
	}

	return summary, err
}
