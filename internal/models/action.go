package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionKind identifies what the autopilot decided about a product.
type ActionKind string

const (
	ActionPriceAdjustment        ActionKind = "price_adjustment"
	ActionPriceApplied           ActionKind = "price_applied"
	ActionPriceSkippedFeedback   ActionKind = "price_skipped_due_to_feedback"
	ActionAdBoostSuggested       ActionKind = "ad_boost_suggested"
	ActionAdBoostSkippedFeedback ActionKind = "ad_boost_skipped_due_to_feedback"
)

// ActionStatus is the lifecycle state of an audit action.
type ActionStatus string

const (
	ActionStatusSuggested ActionStatus = "suggested"
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusSkipped   ActionStatus = "skipped"
)

// AIAction is an immutable audit record of one autopilot decision. Only the
// status field is ever updated, by the merchant approval/rejection workflow.
type AIAction struct {
	ID        string       `json:"id" gorm:"type:uuid;primary_key"`
	ShopID    string       `json:"shop_id" gorm:"type:uuid;not null;index"`
	ProductID string       `json:"product_id" gorm:"type:uuid;not null;index"`
	Kind      ActionKind   `json:"kind" gorm:"type:varchar(50);not null;index"`
	Detail    JSONB        `json:"detail" gorm:"type:jsonb"`
	Reason    string       `json:"reason" gorm:"type:text"`
	Status    ActionStatus `json:"status" gorm:"type:varchar(20);not null;default:suggested;index"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (a *AIAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// ActionDetail is a typed detail payload. One shape exists per action kind so
// consumers can rely on required fields being present for a given kind.
type ActionDetail interface {
	Kind() ActionKind
}

// PriceAdjustmentDetail is attached to price_adjustment actions.
type PriceAdjustmentDetail struct {
	OldPrice  float64        `json:"old_price"`
	NewPrice  float64        `json:"new_price"`
	BasePrice float64        `json:"base_price"`
	Rule      string         `json:"rule,omitempty"`
	Mode      AutomationMode `json:"mode"`
	RiskLevel RiskLevel      `json:"risk_level"`
}

func (PriceAdjustmentDetail) Kind() ActionKind { return ActionPriceAdjustment }

// PriceAppliedDetail is attached to price_applied actions.
type PriceAppliedDetail struct {
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
}

func (PriceAppliedDetail) Kind() ActionKind { return ActionPriceApplied }

// FeedbackSkipDetail is attached to the two *_skipped_due_to_feedback kinds.
type FeedbackSkipDetail struct {
	SkippedKind ActionKind `json:"skipped_kind"`
	Approved    int        `json:"approved"`
	Rejected    int        `json:"rejected"`
	RiskLevel   RiskLevel  `json:"risk_level"`
}

func (d FeedbackSkipDetail) Kind() ActionKind {
	if d.SkippedKind == ActionAdBoostSuggested {
		return ActionAdBoostSkippedFeedback
	}
	return ActionPriceSkippedFeedback
}

// AdBoostDetail is attached to ad_boost_suggested actions.
type AdBoostDetail struct {
	ConversionRate float64   `json:"conversion_rate"`
	ProfitMargin   float64   `json:"profit_margin"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

func (AdBoostDetail) Kind() ActionKind { return ActionAdBoostSuggested }

// DetailJSONB converts a typed detail into the JSONB column representation.
func DetailJSONB(d ActionDetail) (JSONB, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out JSONB
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AIFeedback records one merchant approval or rejection of a suggested
// action. Written exactly once per user decision, read by the trend gate.
type AIFeedback struct {
	ID         string     `json:"id" gorm:"type:uuid;primary_key"`
	ShopID     string     `json:"shop_id" gorm:"type:uuid;not null;index"`
	ProductID  string     `json:"product_id" gorm:"type:uuid;not null;index"`
	ActionID   string     `json:"action_id" gorm:"type:uuid;not null"`
	ActionKind ActionKind `json:"action_kind" gorm:"type:varchar(50);not null;index"`
	Approved   bool       `json:"approved"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (f *AIFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
