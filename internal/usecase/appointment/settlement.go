package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type SettlementInput struct {
	AppointmentID uuid.UUID
	Method        string
	Amount        float64
	// Complete also moves the appointment to completed in the same record.
	Complete bool
	Actor    domain.Actor
}

type RecordSettlement struct {
	deps Dependencies
}

func NewRecordSettlement(deps Dependencies) *RecordSettlement {
	return &RecordSettlement{deps: deps.withDefaults()}
}

func (uc *RecordSettlement) Execute(ctx context.Context, in SettlementInput) (*models.Appointment, error) {
	method, ok := domain.ParseSettlementMethod(in.Method)
	if !ok {
		return nil, httperr.ErrValidation("invalid_settlement_method")
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

		prevPayment := ap.PaymentStatus
		if err := domain.ApplySettlement(ap, method, in.Amount, in.Actor, now); err != nil {
			return err
		}

		desc := fmt.Sprintf("settled %.2f by %s", ap.SettlementAmount, method)
		if in.Complete {
			if err := domain.Complete(ap, in.Actor, now); err != nil {
				return err
			}
			desc += " and completed"
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		if _, err := uc.deps.Recorder.Record(ctx, tx, ap, in.Actor, now, audit.Entry{
			Action:      audit.ActionPaymentReceived,
			Field:       "payment_status",
			Old:         prevPayment,
			New:         ap.PaymentStatus,
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

	if in.Complete {
		uc.deps.Metrics.ObserveTransition(string(domain.StatusCompleted), "ok")
	}

	log.Info().
		Str("appointment_id", out.ID.String()).
		Str("method", out.SettlementMethod).
		Float64("amount", out.SettlementAmount).
		Bool("completed", in.Complete).
		Msg("settlement recorded")

	return out, nil
}
