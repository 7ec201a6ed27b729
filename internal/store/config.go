package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"merchpilot/internal/models"
)

type ConfigStore struct {
	db *gorm.DB
}

func NewConfigStore(db *gorm.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns the shop's autopilot settings, falling back to manual mode and
// normal risk when the shop never saved a config row.
func (s *ConfigStore) Get(ctx context.Context, shopID string) (*models.ShopConfig, error) {
	var cfg models.ShopConfig
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ShopConfig{
			ShopID:    shopID,
			Mode:      models.ModeManual,
			RiskLevel: models.RiskNormal,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = models.ModeManual
	}
	if cfg.RiskLevel == "" {
		cfg.RiskLevel = models.RiskNormal
	}
	return &cfg, nil
}

func (s *ConfigStore) Set(ctx context.Context, shopID string, mode models.AutomationMode, risk models.RiskLevel) (*models.ShopConfig, error) {
	var cfg models.ShopConfig
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).First(&cfg).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.ShopConfig{ShopID: shopID, Mode: mode, RiskLevel: risk}
		if createErr := s.db.WithContext(ctx).Create(&cfg).Error; createErr != nil {
			return nil, createErr
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.Mode = mode
	cfg.RiskLevel = risk
	if err := s.db.WithContext(ctx).Save(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}
