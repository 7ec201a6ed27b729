package store

import (
	"context"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type ActionStore struct {
	db *gorm.DB
}

func NewActionStore(db *gorm.DB) *ActionStore {
	return &ActionStore{db: db}
}

// Append inserts one audit action row. Rows are never mutated afterwards
// except for the status flip done by the approval workflow.
func (s *ActionStore) Append(ctx context.Context, action *models.AIAction) error {
	return s.db.WithContext(ctx).Create(action).Error
}

func (s *ActionStore) GetByID(ctx context.Context, actionID string) (*models.AIAction, error) {
	var action models.AIAction
	if err := s.db.WithContext(ctx).First(&action, "id = ?", actionID).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

// ListByShop returns a shop's audit actions, newest first. Kind and status
// filters are applied when non-empty.
func (s *ActionStore) ListByShop(ctx context.Context, shopID string, kind models.ActionKind, status models.ActionStatus, limit int) ([]models.AIAction, error) {
	query := s.db.WithContext(ctx).Where("shop_id = ?", shopID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit <= 0 {
		limit = 100
	}

	var actions []models.AIAction
	if err := query.Order("created_at desc").Limit(limit).Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *ActionStore) UpdateStatus(ctx context.Context, actionID string, status models.ActionStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.AIAction{}).
		Where("id = ?", actionID).
		Update("status", status).Error
}
