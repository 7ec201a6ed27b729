package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID           string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopID       string    `json:"shop_id" gorm:"type:uuid;not null;index"`
	ExternalID   string    `json:"external_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description"`
	Vendor       *string   `json:"vendor"`
	Price        float64   `json:"price" gorm:"type:decimal(10,2)"`
	Currency     string    `json:"currency" gorm:"default:USD"`
	InventoryQty int       `json:"inventory_qty" gorm:"default:0"`
	Status       string    `json:"status" gorm:"default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PerformanceSnapshot holds per-product derived metrics over trailing windows.
// Zero or one row per (shop, product); absence means "no signal".
type PerformanceSnapshot struct {
	ID             string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopID         string    `json:"shop_id" gorm:"type:uuid;not null;index"`
	ProductID      string    `json:"product_id" gorm:"type:uuid;not null;index"`
	ConversionRate float64   `json:"conversion_rate" gorm:"type:decimal(6,4)"`
	ProfitMargin   float64   `json:"profit_margin" gorm:"type:decimal(6,4)"`
	SalesCount30d  int       `json:"sales_count_30d" gorm:"default:0"`
	Revenue30d     float64   `json:"revenue_30d" gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *PerformanceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
