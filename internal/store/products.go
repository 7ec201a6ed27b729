package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ListByShop returns every product belonging to a shop.
func (s *ProductStore) ListByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) GetByID(ctx context.Context, shopID, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("shop_id = ? AND id = ?", shopID, productID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Upsert creates the product or, when a row with the same (shop, external id)
// exists, overwrites it in place.
func (s *ProductStore) Upsert(ctx context.Context, product *models.Product) error {
	var existing models.Product
	err := s.db.WithContext(ctx).
		Where("shop_id = ? AND external_id = ?", product.ShopID, product.ExternalID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(product).Error
	}
	if err != nil {
		return err
	}

	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(product).Error
}

// UpdatePrice overwrites the locally stored price after a successful
// external apply.
func (s *ProductStore) UpdatePrice(ctx context.Context, shopID, productID string, price float64) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("shop_id = ? AND id = ?", shopID, productID).
		Update("price", price).Error
}

func (s *ProductStore) DeleteByExternalID(ctx context.Context, shopID, externalID string) error {
	return s.db.WithContext(ctx).
		Where("shop_id = ? AND external_id = ?", shopID, externalID).
		Delete(&models.Product{}).Error
}
