package models

import (
	"time"

	"github.com/google/uuid"
)

// ModificationRecord is one append-only audit entry of an appointment.
// Seq is 1-based and gapless per appointment.
type ModificationRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_modifications_seq" json:"appointment_id"`
	Seq           int       `gorm:"uniqueIndex:idx_modifications_seq" json:"seq"`

	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `gorm:"size:100" json:"actor_id"`
	ActorName string    `gorm:"size:100" json:"actor_name"`
	ActorRole string    `gorm:"size:20" json:"actor_role"`

	Action      string `gorm:"size:30;not null" json:"action"`
	Field       string `gorm:"size:50" json:"field,omitempty"`
	OldValue    string `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    string `gorm:"type:text" json:"new_value,omitempty"`
	Description string `gorm:"type:text" json:"description"`
}
