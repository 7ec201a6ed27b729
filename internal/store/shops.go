package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type ShopStore struct {
	db *gorm.DB
}

func NewShopStore(db *gorm.DB) *ShopStore {
	return &ShopStore{db: db}
}

func (s *ShopStore) GetByID(ctx context.Context, shopID string) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.WithContext(ctx).First(&shop, "id = ?", shopID).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *ShopStore) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	var shop models.Shop
	err := s.db.WithContext(ctx).First(&shop, "domain = ?", domain).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *ShopStore) ListActive(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if err := s.db.WithContext(ctx).Where("status = ?", models.ShopStatusActive).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Upsert creates the shop or refreshes its credentials after a reinstall.
func (s *ShopStore) Upsert(ctx context.Context, shop *models.Shop) error {
	existing, err := s.GetByDomain(ctx, shop.Domain)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.db.WithContext(ctx).Create(shop).Error
	}
	shop.ID = existing.ID
	shop.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(shop).Error
}

func (s *ShopStore) TouchSync(ctx context.Context, shopID string) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("last_sync", &now).Error
}
