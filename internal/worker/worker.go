package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"merchpilot/internal/autopilot"
	"merchpilot/internal/config"
	"merchpilot/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Worker consumes run triggers and executes autopilot passes.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	runner *autopilot.Runner
}

func New(cfg *config.Config, runner *autopilot.Runner, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "merchpilot-worker",
		Topic:          triggerTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		runner: runner,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for autopilot triggers...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received trigger: %s", string(message.Value))

		var event TriggerEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse trigger: %v", err)
			continue
		}
		if event.ShopID == "" {
			w.logger.Error("Trigger without shop id, skipping")
			continue
		}

		summary, err := w.runner.RunShop(context.Background(), event.ShopID)
		if err != nil {
			if errors.Is(err, autopilot.ErrRunInProgress) {
				w.logger.Info("Run already in progress for shop %s, skipping trigger from %s", event.ShopID, event.Source)
				continue
			}
			// The next scheduled trigger re-evaluates current state
			w.logger.Error("Autopilot run failed for shop %s: %v", event.ShopID, err)
			continue
		}

		w.logger.Info("Run finished for shop %s (source=%s): %d analyzed, %d suggestions, %d applied",
			event.ShopID, event.Source, summary.Analyzed, summary.PriceSuggestions, summary.Applied)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
