package dto

import (
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type PaymentDTO struct {
	Status                  string  `json:"status"`
	DepositRequired         bool    `json:"deposit_required"`
	DepositAmount           float64 `json:"deposit_amount"`
	DepositPaid             bool    `json:"deposit_paid"`
	PaymentIntentRef        string  `json:"payment_intent_ref,omitempty"`
	Discrepancy             string  `json:"discrepancy,omitempty"`
	TotalPrice              float64 `json:"total_price"`
	Outstanding             float64 `json:"outstanding"`
	ExpectedHouseCollection float64 `json:"expected_house_collection"`

	SettlementMethod string     `json:"settlement_method,omitempty"`
	SettlementAmount float64    `json:"settlement_amount,omitempty"`
	SettledBy        string     `json:"settled_by,omitempty"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`
}

type AppointmentDTO struct {
	ID             uuid.UUID `json:"id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	DurationMin    int       `json:"duration_min"`
	IsConsultation bool      `json:"is_consultation"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`

	ServicePrice       float64                        `json:"service_price"`
	AdditionalServices []models.AdditionalServiceItem `json:"additional_services"`
	Payment            PaymentDTO                     `json:"payment"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy string     `json:"cancelled_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
	NoShowAt    *time.Time `json:"no_show_at,omitempty"`
	NoShowBy    string     `json:"no_show_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAppointmentDTO renders times in loc. provider may be nil, in which
// case the house collection is left at zero.
func ToAppointmentDTO(ap *models.Appointment, provider *models.Provider, loc *time.Location) AppointmentDTO {
	items := ap.AdditionalServices
	if items == nil {
		items = []models.AdditionalServiceItem{}
	}

	out := AppointmentDTO{
		ID:             ap.ID,
		ProviderID:     ap.ProviderID,
		ServiceID:      ap.ServiceID,
		Date:           ap.Date,
		Time:           ap.Time,
		StartTime:      ap.StartTime.In(loc),
		EndTime:        ap.EndTime.In(loc),
		DurationMin:    ap.DurationMin,
		IsConsultation: ap.IsConsultation,
		Status:         ap.Status,
		Notes:          ap.Notes,

		ClientName:  ap.ClientName,
		ClientEmail: ap.ClientEmail,
		ClientPhone: ap.ClientPhone,

		ServicePrice:       ap.ServicePrice,
		AdditionalServices: items,
		Payment: PaymentDTO{
			Status:           ap.PaymentStatus,
			DepositRequired:  ap.DepositRequired,
			DepositAmount:    ap.DepositAmount,
			DepositPaid:      ap.DepositPaid,
			PaymentIntentRef: ap.PaymentIntentRef,
			Discrepancy:      ap.PaymentDiscrepancy,
			TotalPrice:       domain.TotalPrice(ap),
			Outstanding:      domain.Outstanding(ap),
			SettlementMethod: ap.SettlementMethod,
			SettlementAmount: ap.SettlementAmount,
			SettledBy:        ap.SettledBy,
			SettledAt:        ap.SettledAt,
		},

		CancelledAt: ap.CancelledAt,
		CancelledBy: ap.CancelledBy,
		CompletedAt: ap.CompletedAt,
		CompletedBy: ap.CompletedBy,
		NoShowAt:    ap.NoShowAt,
		NoShowBy:    ap.NoShowBy,

		CreatedAt: ap.CreatedAt,
		UpdatedAt: ap.UpdatedAt,
	}
	if provider != nil {
		out.Payment.ExpectedHouseCollection = domain.ExpectedHouseCollection(provider.Classification, ap)
	}
	return out
}

// AppointmentListDTO is the compact row of a provider's day.
type AppointmentListDTO struct {
	ID          uuid.UUID `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	Outstanding float64   `json:"outstanding"`
}

func ToAppointmentList(apps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for i := range apps {
		ap := &apps[i]
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime.In(loc),
			EndTime:     ap.EndTime.In(loc),
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			Outstanding: domain.Outstanding(ap),
		})
	}
	return out
}
