package worker

import (
	"context"
	"time"

	"merchpilot/internal/logger"
	"merchpilot/internal/store"

	"github.com/robfig/cron/v3"
)

// Scheduler publishes one autopilot trigger per active shop on a cron
// schedule. Publishing instead of running inline keeps scheduled and manual
// runs on the same path through the worker.
type Scheduler struct {
	cron      *cron.Cron
	shops     *store.ShopStore
	publisher *TriggerPublisher
	logger    *logger.Logger
}

func NewScheduler(shops *store.ShopStore, publisher *TriggerPublisher, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		shops:     shops,
		publisher: publisher,
		logger:    logger,
	}
}

// Start registers the schedule and begins ticking. A bad cron expression is
// the only reason this can fail.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started with schedule %q", schedule)
	return nil
}

// tick enqueues a run for every active shop. Failures are per-shop: one bad
// publish never stops the remaining shops, and a failed tick never stops the
// cron loop.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shops, err := s.shops.ListActive(ctx)
	if err != nil {
		s.logger.Error("Scheduler failed to list shops: %v", err)
		return
	}

	for _, shop := range shops {
		if err := s.publisher.Publish(ctx, shop.ID, "scheduler"); err != nil {
			s.logger.Error("Scheduler failed to queue run for shop %s: %v", shop.ID, err)
		}
	}

	s.logger.Info("Scheduler queued runs for %d shops", len(shops))
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	s.cron.Stop()
}
