package worker

import (
	"context"
	"encoding/json"
	"time"

	"merchpilot/internal/config"

	"github.com/segmentio/kafka-go"
)

const triggerTopic = "autopilot-triggers"

// TriggerEvent asks the worker to run the autopilot for one shop.
type TriggerEvent struct {
	ShopID    string    `json:"shop_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// TriggerPublisher queues run requests on the trigger topic. Both the API
// (manual async runs) and the scheduler (periodic ticks) publish through it.
type TriggerPublisher struct {
	writer *kafka.Writer
}

func NewTriggerPublisher(cfg *config.Config) *TriggerPublisher {
	return &TriggerPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers),
			Topic:        triggerTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *TriggerPublisher) Publish(ctx context.Context, shopID, source string) error {
	event := TriggerEvent{
		ShopID:    shopID,
		Source:    source,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		// Keyed by shop so triggers for one shop stay ordered
		Key:   []byte(shopID),
		Value: value,
	})
}

func (p *TriggerPublisher) Close() error {
	return p.writer.Close()
}
