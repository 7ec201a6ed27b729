package main

import (
	"log"
	"time"

	"merchpilot/internal/api"
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

	// Autopilot engine for synchronous runs
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

	// Async run requests go to the worker through Kafka
	publisher := worker.NewTriggerPublisher(cfg)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, runner, publisher)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
