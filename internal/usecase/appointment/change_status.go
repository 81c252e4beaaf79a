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
)

type ChangeStatusInput struct {
	AppointmentID uuid.UUID
	Status        string
	Reason        string
	Actor         domain.Actor
}

type ChangeStatus struct {
	deps Dependencies
}

func NewChangeStatus(deps Dependencies) *ChangeStatus {
	return &ChangeStatus{deps: deps.withDefaults()}
}

func (uc *ChangeStatus) Execute(ctx context.Context, in ChangeStatusInput) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "ChangeStatus")
	defer span.End()

	// Only known statuses become label values.
	target := metrics.TargetInvalid
	if st, ok := domain.ParseStatus(in.Status); ok {
		target = string(st)
	}
	span.SetAttributes(
		attribute.String("salon.appointment_id", in.AppointmentID.String()),
		attribute.String("salon.status", target),
	)

	ap, err := uc.change(ctx, in)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	uc.deps.Metrics.ObserveTransition(target, outcome)

	if err != nil {
		return nil, fail(span, err)
	}
	return ap, nil
}

func (uc *ChangeStatus) change(ctx context.Context, in ChangeStatusInput) (*models.Appointment, error) {
	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrValidation("unknown_status")
	}

	before, err := uc.deps.loadForMutation(ctx, in.AppointmentID, in.Actor)
	if err != nil {
		return nil, err
	}

	now := uc.deps.now()

	var out *models.Appointment
	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(before)}, func(ctx context.Context, tx domain.ScheduleTx) error {
		ap, err := reload(ctx, tx, before)
		if err != nil {
			return err
		}

		from := ap.Status
		if err := domain.Transition(ap, to, in.Actor, now); err != nil {
			return err
		}

		desc := fmt.Sprintf("%s -> %s", from, to)
		if in.Reason != "" {
			desc += ": " + in.Reason
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		if _, err := uc.deps.Recorder.Record(ctx, tx, ap, in.Actor, now, audit.Entry{
			Action:      actionFor(to),
			Field:       "status",
			Old:         from,
			New:         string(to),
			Description: desc,
		}); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to == domain.StatusCancelled {
		uc.deps.invalidate(ctx, out.ProviderID)
		out = uc.refundDeposit(ctx, out, in.Actor)
		uc.deps.event(notify.EventCancelled, out)
	}

	log.Info().
		Str("appointment_id", out.ID.String()).
		Str("status", out.Status).
		Str("payment_status", out.PaymentStatus).
		Str("actor", in.Actor.Label()).
		Msg("appointment status changed")

	return out, nil
}

// refundDeposit gives back a captured deposit once the cancellation has
// committed, so no lock is held across the provider call. The outcome is
// written by a second unit of work. A failed refund leaves the payment
// status alone and records the discrepancy instead.
func (uc *ChangeStatus) refundDeposit(ctx context.Context, ap *models.Appointment, actor domain.Actor) *models.Appointment {
	if !ap.DepositPaid || ap.PaymentIntentRef == "" {
		return ap
	}
	if domain.CanMovePayment(domain.PaymentStatus(ap.PaymentStatus), domain.PaymentRefunded) != nil {
		return ap
	}

	ref, refundErr := uc.deps.Payments.Refund(ctx, ap.ID, ap.PaymentIntentRef, ap.DepositAmount)
	if refundErr != nil {
		log.Warn().
			Err(refundErr).
			Str("appointment_id", ap.ID.String()).
			Str("payment_ref", ap.PaymentIntentRef).
			Msg("deposit refund failed, cancelling anyway")
	}

	now := uc.deps.now()

	var out *models.Appointment
	err := uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(ap)}, func(ctx context.Context, tx domain.ScheduleTx) error {
		cur, err := reload(ctx, tx, ap)
		if err != nil {
			return err
		}

		entry := audit.Entry{Action: audit.ActionUpdated}
		if refundErr != nil {
			cur.PaymentDiscrepancy = fmt.Sprintf("deposit refund of %.2f failed: %v", cur.DepositAmount, refundErr)
			entry.Field = "payment_discrepancy"
			entry.New = cur.PaymentDiscrepancy
			entry.Description = "deposit refund failed"
		} else {
			entry.Field = "payment_status"
			entry.Old = cur.PaymentStatus
			entry.New = string(domain.PaymentRefunded)
			entry.Description = fmt.Sprintf("deposit of %.2f refunded (%s)", cur.DepositAmount, ref)
			cur.PaymentStatus = string(domain.PaymentRefunded)
			cur.PaymentDiscrepancy = ""
		}

		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}
		if _, err := uc.deps.Recorder.Record(ctx, tx, cur, actor, now, entry); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		// The provider already answered; the ledger is behind it.
		log.Error().
			Err(err).
			AnErr("refund_err", refundErr).
			Str("appointment_id", ap.ID.String()).
			Str("payment_ref", ap.PaymentIntentRef).
			Str("refund_ref", ref).
			Msg("deposit refund outcome not recorded")
		return ap
	}
	return out
}

func actionFor(to domain.Status) audit.Action {
	switch to {
	case domain.StatusCancelled:
		return audit.ActionCancelled
	case domain.StatusCompleted:
		return audit.ActionCompleted
	}
	return audit.ActionStatusChanged
}
