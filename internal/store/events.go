package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Active returns the first active event ordered by start date, or nil when
// no event is active. Overlapping events are not resolved beyond that order.
func (s *EventStore) Active(ctx context.Context) (*models.SeasonalEvent, error) {
	var event models.SeasonalEvent
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("start_date asc").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventStore) Create(ctx context.Context, event *models.SeasonalEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}
