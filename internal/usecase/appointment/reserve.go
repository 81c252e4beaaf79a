package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type ReserveInput struct {
	ProviderID     uuid.UUID
	ServiceID      uuid.UUID
	Date           string
	Time           string
	IsConsultation bool

	ClientName  string
	ClientEmail string
	ClientPhone string
	Notes       string

	// PaymentRef is the provider's payment id for the deposit, if paid upfront.
	PaymentRef string

	// Actor is optional; public bookings act as an anonymous client.
	Actor domain.Actor
}

type ReserveSlot struct {
	deps Dependencies
}

func NewReserveSlot(deps Dependencies) *ReserveSlot {
	return &ReserveSlot{deps: deps.withDefaults()}
}

// Execute is the only path that creates an appointment. The candidate
// check, the overlap check, the deposit capture and the insert all run in
// one unit of work holding the (provider, date) key.
func (uc *ReserveSlot) Execute(ctx context.Context, in ReserveInput) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "ReserveSlot")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.provider_id", in.ProviderID.String()),
		attribute.String("salon.date", in.Date),
		attribute.String("salon.time", in.Time),
	)

	ap, err := uc.reserve(ctx, in)
	uc.deps.Metrics.ObserveReservation(reservationOutcome(err))
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("salon.appointment_id", ap.ID.String()))
	return ap, nil
}

func (uc *ReserveSlot) reserve(ctx context.Context, in ReserveInput) (*models.Appointment, error) {
	contact, err := validators.Contact{Name: in.ClientName, Email: in.ClientEmail, Phone: in.ClientPhone}.Clean()
	if err != nil {
		return nil, err
	}

	actor := in.Actor
	if actor.Role == "" {
		actor = domain.AnonymousClient(contact.Name)
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	provider, err := uc.deps.Repo.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, httperr.ErrValidation("provider_inactive")
	}

	svc, err := uc.deps.Repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	duration, price, err := bookingTerms(svc, in.IsConsultation)
	if err != nil {
		return nil, err
	}

	start, err := parseStart(in.Date, in.Time, duration, uc.deps.Location)
	if err != nil {
		return nil, err
	}

	deposit := domain.DepositFor(price, uc.deps.Deposit.Percent, uc.deps.Deposit.Required)
	now := uc.deps.now()
	key := domain.ScheduleKey{ProviderID: provider.ID, Date: start.Format(timezone.DateLayout)}

	ap := &models.Appointment{
		ID:             uuid.New(),
		ProviderID:     provider.ID,
		ServiceID:      svc.ID,
		ClientName:     contact.Name,
		ClientEmail:    contact.Email,
		ClientPhone:    contact.Phone,
		Date:           key.Date,
		Time:           start.Format(timezone.ClockLayout),
		StartTime:      start,
		EndTime:        start.Add(duration),
		DurationMin:    int(duration.Minutes()),
		IsConsultation: in.IsConsultation,
		Notes:          in.Notes,
		ServicePrice:   price,
		DepositAmount:  deposit,
		PaymentStatus:  string(domain.PaymentPending),
	}
	ap.DepositRequired = deposit > 0

	var captured bool

	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		rules, err := tx.ListRules(ctx, provider.ID)
		if err != nil {
			return err
		}
		if err := ensureCandidate(rules, svc, start, duration); err != nil {
			return err
		}

		appts, err := tx.ListAppointmentsForDate(ctx, provider.ID, key.Date)
		if err != nil {
			return err
		}
		blocks, err := tx.ListBlocksForDate(ctx, provider.ID, key.Date)
		if err != nil {
			return err
		}
		if err := domain.CheckSlotFree(start, duration, svc.ID, appts, blocks, uuid.Nil, now); err != nil {
			return err
		}

		if in.PaymentRef != "" && deposit > 0 {
			if err := uc.capture(ctx, ap, in.PaymentRef); err != nil {
				return err
			}
			captured = ap.DepositPaid
		}

		ap.Status = string(domain.InitialStatus(ap.DepositRequired, ap.DepositPaid))

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		desc := fmt.Sprintf("booked %s %s for %s", ap.Date, ap.Time, ap.ClientName)
		if in.IsConsultation {
			desc += " (consultation)"
		}
		_, err = uc.deps.Recorder.Record(ctx, tx, ap, actor, now, audit.Entry{
			Action:      audit.ActionCreated,
			Field:       "status",
			New:         ap.Status,
			Description: desc,
		})
		return err
	})

	if err != nil {
		if captured {
			uc.compensate(ap)
		}
		return nil, err
	}

	uc.deps.invalidate(ctx, provider.ID)
	uc.deps.event(notify.EventCreated, ap)

	log.Info().
		Str("appointment_id", ap.ID.String()).
		Str("provider_id", provider.ID.String()).
		Str("start", ap.StartTime.Format(timezone.DateTimeLayout)).
		Str("status", ap.Status).
		Str("actor_role", string(actor.Role)).
		Msg("appointment reserved")

	return ap, nil
}

func (uc *ReserveSlot) capture(ctx context.Context, ap *models.Appointment, paymentRef string) error {
	res, err := uc.deps.Payments.CaptureDeposit(ctx, ap.ID, paymentRef, ap.DepositAmount)
	if err != nil {
		if _, ok := httperr.AsBusiness(err); ok {
			return err
		}
		return httperr.ErrUpstreamPayment(err.Error())
	}

	switch res.Status {
	case domain.CaptureCaptured:
		domain.ApplyDepositCapture(ap, res.Reference)
	case domain.CaptureAuthorized:
		ap.PaymentIntentRef = res.Reference
	default:
		return httperr.ErrUpstreamPayment("deposit capture failed")
	}
	return nil
}

// compensate refunds a deposit whose appointment never got stored.
func (uc *ReserveSlot) compensate(ap *models.Appointment) {
	ctx := context.Background()
	if _, err := uc.deps.Payments.Refund(ctx, ap.ID, ap.PaymentIntentRef, ap.DepositAmount); err != nil {
		log.Error().
			Err(err).
			Str("appointment_id", ap.ID.String()).
			Str("payment_ref", ap.PaymentIntentRef).
			Float64("amount", ap.DepositAmount).
			Msg("compensating deposit refund failed")
		return
	}
	log.Warn().
		Str("appointment_id", ap.ID.String()).
		Str("payment_ref", ap.PaymentIntentRef).
		Msg("deposit refunded after failed reservation")
}

func reservationOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeCreated
	}
	be, ok := httperr.AsBusiness(err)
	if !ok {
		return metrics.OutcomeError
	}
	switch be.Code {
	case httperr.CodeSlotNoLongerAvailable:
		return metrics.OutcomeSlotTaken
	case httperr.CodeReservationTimeout:
		return metrics.OutcomeTimeout
	case httperr.CodeUpstreamPayment:
		return metrics.OutcomePaymentFailed
	}
	return metrics.OutcomeInvalid
}
