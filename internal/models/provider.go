package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClassificationSalaried    = "salaried"
	ClassificationIndependent = "independent"
)

// Provider is a staff member that appointments are booked against.
// UserID is the identity reference issued by the auth collaborator.
type Provider struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string    `gorm:"size:100;index" json:"user_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	Classification string `gorm:"size:20;not null;default:'independent'" json:"classification"`
	Active         bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
