package store

import (
	"context"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type FeedbackStore struct {
	db *gorm.DB
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// ListFor returns the full feedback history for one (shop, product, kind)
// triple. No windowing: the suppression gate strengthens monotonically as
// rejections accumulate.
func (s *FeedbackStore) ListFor(ctx context.Context, shopID, productID string, kind models.ActionKind) ([]models.AIFeedback, error) {
	var rows []models.AIFeedback
	err := s.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ? AND action_kind = ?", shopID, productID, kind).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *FeedbackStore) Create(ctx context.Context, feedback *models.AIFeedback) error {
	return s.db.WithContext(ctx).Create(feedback).Error
}
