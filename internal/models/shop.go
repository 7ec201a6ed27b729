package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shop struct {
	ID          string     `json:"id" gorm:"type:uuid;primary_key"`
	Domain      string     `json:"domain" gorm:"unique;not null"`
	Name        string     `json:"name"`
	Email       *string    `json:"email"`
	Currency    string     `json:"currency" gorm:"default:USD"`
	AccessToken string     `json:"-" gorm:"not null"`
	Scope       string     `json:"scope"`
	Status      ShopStatus `json:"status" gorm:"default:ACTIVE"`
	LastSync    *time.Time `json:"last_sync"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ShopStatus string

const (
	ShopStatusActive   ShopStatus = "ACTIVE"
	ShopStatusInactive ShopStatus = "INACTIVE"
	ShopStatusError    ShopStatus = "ERROR"
)

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// AutomationMode is the shop-level automation posture.
type AutomationMode string

const (
	ModeManual AutomationMode = "manual"
	ModeAssist AutomationMode = "assist"
	ModeFull   AutomationMode = "full"
)

func (m AutomationMode) Valid() bool {
	switch m {
	case ModeManual, ModeAssist, ModeFull:
		return true
	}
	return false
}

// RiskLevel scales price deltas and feedback suppression thresholds.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskNormal     RiskLevel = "normal"
	RiskAggressive RiskLevel = "aggressive"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskSafe, RiskNormal, RiskAggressive:
		return true
	}
	return false
}

// ShopConfig holds the per-shop autopilot settings. When a shop has no row
// the defaults are manual mode and normal risk.
type ShopConfig struct {
	ID        string         `json:"id" gorm:"type:uuid;primary_key"`
	ShopID    string         `json:"shop_id" gorm:"type:uuid;unique;not null"`
	Mode      AutomationMode `json:"mode" gorm:"type:varchar(20);default:manual"`
	RiskLevel RiskLevel      `json:"risk_level" gorm:"type:varchar(20);default:normal"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (c *ShopConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
