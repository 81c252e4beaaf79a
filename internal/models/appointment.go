package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProviderID uuid.UUID `gorm:"type:uuid;index:idx_appointments_provider_date" json:"provider_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid" json:"service_id"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	// Salon-local calendar fields; StartTime/EndTime carry the same instant.
	Date        string    `gorm:"size:10;index:idx_appointments_provider_date" json:"date"`
	Time        string    `gorm:"size:5" json:"time"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`

	IsConsultation bool   `json:"is_consultation"`
	Status         string `gorm:"size:20;default:'pending'" json:"status"`
	Notes          string `gorm:"size:255" json:"notes"`

	ServicePrice       float64 `json:"service_price"`
	DepositRequired    bool    `json:"deposit_required"`
	DepositAmount      float64 `json:"deposit_amount"`
	DepositPaid        bool    `json:"deposit_paid"`
	PaymentIntentRef   string  `gorm:"size:100" json:"payment_intent_ref"`
	PaymentStatus      string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentDiscrepancy string  `gorm:"size:255" json:"payment_discrepancy"`

	SettlementMethod string     `gorm:"size:20" json:"settlement_method"`
	SettlementAmount float64    `json:"settlement_amount"`
	SettledBy        string     `gorm:"size:100" json:"settled_by"`
	SettledAt        *time.Time `json:"settled_at"`

	AdditionalServices []AdditionalServiceItem `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"additional_services"`
	Modifications      []ModificationRecord    `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"modifications"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy string     `gorm:"size:100" json:"cancelled_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CompletedBy string     `gorm:"size:100" json:"completed_by"`
	NoShowAt    *time.Time `json:"no_show_at"`
	NoShowBy    string     `gorm:"size:100" json:"no_show_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdditionalServiceItem is an ad-hoc line item. Items are added or
// removed, never edited.
type AdditionalServiceItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;index" json:"appointment_id"`
	ServiceID     *uuid.UUID `gorm:"type:uuid" json:"service_id"`

	Name    string    `gorm:"size:100;not null" json:"name"`
	Price   float64   `json:"price"`
	AddedAt time.Time `json:"added_at"`
}
