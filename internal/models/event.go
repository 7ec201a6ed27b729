package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeasonalEvent is a named promotional window. Keywords are matched
// case-insensitively as substrings against product titles.
type SeasonalEvent struct {
	ID          string     `json:"id" gorm:"type:uuid;primary_key"`
	Name        string     `json:"name" gorm:"not null"`
	DisplayName string     `json:"display_name"`
	StartDate   time.Time  `json:"start_date" gorm:"index"`
	EndDate     time.Time  `json:"end_date"`
	Active      bool       `json:"active" gorm:"default:false;index"`
	Keywords    StringList `json:"keywords" gorm:"type:jsonb"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *SeasonalEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// MatchesTitle reports whether any event keyword is a case-insensitive
// substring of the given product title.
func (e *SeasonalEvent) MatchesTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range e.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
