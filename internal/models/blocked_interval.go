package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockedInterval is a one-off exclusion of provider time.
// A nil EndTime blocks exactly one slot of the duration being queried.
type BlockedInterval struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID  `gorm:"type:uuid;index:idx_blocks_provider_date" json:"provider_id"`
	ServiceID  *uuid.UUID `gorm:"type:uuid" json:"service_id"`

	Date      string  `gorm:"size:10;index:idx_blocks_provider_date" json:"date"`
	StartTime string  `gorm:"size:5;not null" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`
	Reason    string  `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
