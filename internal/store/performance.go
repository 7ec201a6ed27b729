package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type SnapshotStore struct {
	db *gorm.DB
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Get returns the performance snapshot for a product, or nil when none
// exists. Absence is not an error: the caller treats it as "no signal".
func (s *SnapshotStore) Get(ctx context.Context, shopID, productID string) (*models.PerformanceSnapshot, error) {
	var snapshot models.PerformanceSnapshot
	err := s.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopID, productID).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, snapshot *models.PerformanceSnapshot) error {
	var existing models.PerformanceSnapshot
	err := s.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", snapshot.ShopID, snapshot.ProductID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(snapshot).Error
	}
	if err != nil {
		return err
	}

	snapshot.ID = existing.ID
	snapshot.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(snapshot).Error
}
