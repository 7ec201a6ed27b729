package store

import (
	"context"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type RunStore struct {
	db *gorm.DB
}

func NewRunStore(db *gorm.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Create(ctx context.Context, run *models.AutopilotRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *RunStore) ListByShop(ctx context.Context, shopID string, limit int) ([]models.AutopilotRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.AutopilotRun
	err := s.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
