package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

var tracer = otel.Tracer("salon.internal.usecase.appointment")

// SlotCache holds resolved slot views between writes. Entries are
// advisory: reservation always re-checks inside the unit of work.
// Get reports the cache version it looked under; Set must be given that
// version so a view loaded before an Invalidate is never served after it.
type SlotCache interface {
	Get(ctx context.Context, q domain.AvailabilityInput) (slots []domain.ResolvedSlot, version int64, ok bool)
	Set(ctx context.Context, q domain.AvailabilityInput, version int64, slots []domain.ResolvedSlot)
	// Invalidate drops every cached view of the provider.
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

// Archiver stores a purged appointment and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, ap *models.Appointment) (string, error)
}

type DepositPolicy struct {
	Required bool
	Percent  float64
}

// Dependencies is shared by every appointment use case. Only Repo is
// mandatory; the rest fall back to inert implementations.
type Dependencies struct {
	Repo     domain.Repository
	Clock    timezone.Clock
	Location *time.Location
	Payments domain.PaymentGateway
	Notifier notify.Notifier
	Cache    SlotCache
	Archive  Archiver
	Metrics  *metrics.SchedulingMetrics
	Recorder *audit.Recorder
	Deposit  DepositPolicy
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Location == nil {
		d.Location = timezone.Location("")
	}
	if d.Clock == nil {
		d.Clock = timezone.SalonClock(d.Location)
	}
	if d.Payments == nil {
		d.Payments = disabledPayments{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}
	if d.Cache == nil {
		d.Cache = nopCache{}
	}
	if d.Archive == nil {
		d.Archive = nopArchiver{}
	}
	if d.Recorder == nil {
		d.Recorder = audit.New()
	}
	return d
}

// now is the single read of the clock per operation, in salon time.
func (d Dependencies) now() time.Time {
	return d.Clock.Now().In(d.Location)
}

// inSchedule wraps Repo.InSchedule with lock timing.
func (d Dependencies) inSchedule(
	ctx context.Context,
	keys []domain.ScheduleKey,
	fn func(ctx context.Context, tx domain.ScheduleTx) error,
) error {
	started := time.Now()
	err := d.Repo.InSchedule(ctx, keys, fn)
	d.Metrics.ObserveLockWait(time.Since(started))
	return err
}

func (d Dependencies) invalidate(ctx context.Context, providerID uuid.UUID) {
	d.Cache.Invalidate(ctx, providerID)
}

func (d Dependencies) event(t notify.EventType, ap *models.Appointment) {
	d.Notifier.Notify(notify.Event{
		Type:          t,
		AppointmentID: ap.ID,
		ProviderID:    ap.ProviderID,
		ClientName:    ap.ClientName,
		ClientEmail:   ap.ClientEmail,
		ClientPhone:   ap.ClientPhone,
		Start:         ap.StartTime,
		OccurredAt:    d.now(),
	})
}

func keyOf(ap *models.Appointment) domain.ScheduleKey {
	return domain.ScheduleKey{ProviderID: ap.ProviderID, Date: ap.Date}
}

// loadForMutation reads the appointment outside the unit of work to learn
// its schedule key and authorize the actor.
func (d Dependencies) loadForMutation(
	ctx context.Context,
	appointmentID uuid.UUID,
	actor domain.Actor,
) (*models.Appointment, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	ap, err := d.Repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	provider, err := d.Repo.GetProvider(ctx, ap.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeProvider(actor, provider); err != nil {
		return nil, err
	}
	return ap, nil
}

// reload re-reads inside the unit of work; a row that moved to another
// day since loadForMutation is reported as a lost race.
func reload(ctx context.Context, tx domain.ScheduleTx, before *models.Appointment) (*models.Appointment, error) {
	ap, err := tx.GetAppointment(ctx, before.ID)
	if err != nil {
		return nil, err
	}
	if ap.ProviderID != before.ProviderID || ap.Date != before.Date {
		return nil, httperr.ErrSlotTaken("appointment_moved")
	}
	return ap, nil
}

func fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// -------- inert defaults --------

type disabledPayments struct{}

func (disabledPayments) CaptureDeposit(context.Context, uuid.UUID, string, float64) (domain.CaptureResult, error) {
	return domain.CaptureResult{}, httperr.ErrUpstreamPayment("payment provider not configured")
}

func (disabledPayments) Refund(context.Context, uuid.UUID, string, float64) (string, error) {
	return "", httperr.ErrUpstreamPayment("payment provider not configured")
}

type nopCache struct{}

func (nopCache) Get(context.Context, domain.AvailabilityInput) ([]domain.ResolvedSlot, int64, bool) {
	return nil, -1, false
}
func (nopCache) Set(context.Context, domain.AvailabilityInput, int64, []domain.ResolvedSlot) {}
func (nopCache) Invalidate(context.Context, uuid.UUID)                                       {}

type nopArchiver struct{}

func (nopArchiver) Archive(_ context.Context, ap *models.Appointment) (string, error) {
	log.Debug().Str("appointment_id", ap.ID.String()).Msg("archive disabled, purging without copy")
	return "", nil
}
