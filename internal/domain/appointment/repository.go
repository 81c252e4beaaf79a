package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ScheduleKey identifies the unit of contention: one provider's day.
type ScheduleKey struct {
	ProviderID uuid.UUID
	Date       string
}

func (k ScheduleKey) String() string {
	return k.ProviderID.String() + ":" + k.Date
}

// SortKeys dedupes keys and orders them so every caller acquires locks
// in the same sequence.
func SortKeys(keys []ScheduleKey) []ScheduleKey {
	seen := make(map[string]struct{}, len(keys))
	out := make([]ScheduleKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k.String()]; ok {
			continue
		}
		seen[k.String()] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type Repository interface {
	// -------- Catalog --------
	GetProvider(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	ListProviders(ctx context.Context, activeOnly bool) ([]models.Provider, error)
	SaveProvider(ctx context.Context, p *models.Provider) error
	CountAppointmentsForProvider(ctx context.Context, providerID uuid.UUID) (int64, error)

	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	SaveService(ctx context.Context, s *models.Service) error

	// -------- Availability rules --------
	ListRules(ctx context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error)
	GetRule(ctx context.Context, id uuid.UUID) (*models.AvailabilityRule, error)

	// -------- Blocks --------
	GetBlock(ctx context.Context, id uuid.UUID) (*models.BlockedInterval, error)
	ListBlocksForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error)

	// -------- Appointments (reads) --------
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListAppointmentsForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error)
	ListAppointmentsStartingBetween(ctx context.Context, status Status, from, to time.Time) ([]models.Appointment, error)

	// InSchedule runs fn as one atomic unit of work holding the given
	// schedule keys. Keys are acquired in sorted order; failing to get
	// one within the lock timeout yields a reservation_timeout error.
	// Any error returned by fn rolls the whole unit back.
	InSchedule(ctx context.Context, keys []ScheduleKey, fn func(ctx context.Context, tx ScheduleTx) error) error
}

// ScheduleTx is the write side, only reachable while holding the keys.
type ScheduleTx interface {
	ListAppointmentsForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error)
	ListBlocksForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error)
	ListRules(ctx context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error)

	// GetAppointment loads line items and modifications ordered by seq.
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	// UpdateAppointment persists scalar fields only; children have their own calls.
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// AppendModification assigns the next seq and stores rec.
	AppendModification(ctx context.Context, rec *models.ModificationRecord) error

	AddLineItem(ctx context.Context, item *models.AdditionalServiceItem) error
	RemoveLineItem(ctx context.Context, appointmentID, itemID uuid.UUID) error

	CreateBlock(ctx context.Context, b *models.BlockedInterval) error
	UpdateBlock(ctx context.Context, b *models.BlockedInterval) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error

	SaveRule(ctx context.Context, r *models.AvailabilityRule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

// ===============================
// Payment provider port
// ===============================

type CaptureStatus string

const (
	CaptureAuthorized CaptureStatus = "authorized"
	CaptureCaptured   CaptureStatus = "captured"
	CaptureFailed     CaptureStatus = "failed"
)

type CaptureResult struct {
	Status    CaptureStatus
	Reference string
}

type PaymentGateway interface {
	CaptureDeposit(ctx context.Context, appointmentID uuid.UUID, paymentRef string, amount float64) (CaptureResult, error)
	Refund(ctx context.Context, appointmentID uuid.UUID, paymentRef string, amount float64) (string, error)
}
