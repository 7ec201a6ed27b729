package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merchpilot/internal/autopilot"
	"merchpilot/internal/config"
	"merchpilot/internal/database"
	"merchpilot/internal/logger"
	"merchpilot/internal/services/shopify"
	"merchpilot/internal/store"
	"merchpilot/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Autopilot engine
	shops := store.NewShopStore(db.DB)
	updater := shopify.NewPriceService(shopify.NewStoreCredentials(shops), logger)
	engine := autopilot.NewEngine(
		store.NewProductStore(db.DB),
		store.NewSnapshotStore(db.DB),
		store.NewEventStore(db.DB),
		store.NewConfigStore(db.DB),
		store.NewFeedbackStore(db.DB),
		store.NewActionStore(db.DB),
		updater,
		time.Duration(cfg.AutopilotApplyTimeoutSec)*time.Second,
		logger,
	)
	runner := autopilot.NewRunner(engine, store.NewRunStore(db.DB), logger)

	// Trigger publisher feeds the scheduler ticks back through Kafka
	publisher := worker.NewTriggerPublisher(cfg)
	defer publisher.Close()

	// Initialize worker and scheduler
	w := worker.New(cfg, runner, logger)
	scheduler := worker.NewScheduler(shops, publisher, logger)

	if err := scheduler.Start(cfg.AutopilotSchedule); err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	scheduler.Stop()
	w.Stop()
}
