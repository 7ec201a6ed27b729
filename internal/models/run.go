package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AutopilotRun is the persisted summary of one complete pass over a shop's
// product set.
type AutopilotRun struct {
	ID                   string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopID               string    `json:"shop_id" gorm:"type:uuid;not null;index"`
	Status               RunStatus `json:"status" gorm:"type:varchar(20);not null"`
	Analyzed             int       `json:"analyzed" gorm:"default:0"`
	PriceSuggestions     int       `json:"price_suggestions" gorm:"default:0"`
	Applied              int       `json:"applied" gorm:"default:0"`
	SkippedByFeedback    int       `json:"skipped_due_to_feedback" gorm:"default:0"`
	MarketingSuggestions int       `json:"marketing_suggestions" gorm:"default:0"`
	Error                *string   `json:"error,omitempty" gorm:"type:text"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
	CreatedAt            time.Time `json:"created_at"`
}

func (r *AutopilotRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
