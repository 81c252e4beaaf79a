package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is a recurring weekly open-hours window.
// A nil ServiceID applies to every service of the provider.
type AvailabilityRule struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID  `gorm:"type:uuid;index:idx_rules_provider_day" json:"provider_id"`
	ServiceID  *uuid.UUID `gorm:"type:uuid" json:"service_id"`

	DayOfWeek int `gorm:"index:idx_rules_provider_day" json:"day_of_week"`

	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	// YYYY-MM-DD, both inclusive.
	StartDate *string `gorm:"size:10" json:"start_date"`
	EndDate   *string `gorm:"size:10" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
