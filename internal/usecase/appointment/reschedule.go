package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type RescheduleInput struct {
	AppointmentID uuid.UUID
	Date          string
	Time          string
	Actor         domain.Actor
}

type Reschedule struct {
	deps Dependencies
}

func NewReschedule(deps Dependencies) *Reschedule {
	return &Reschedule{deps: deps.withDefaults()}
}

// Execute moves a live appointment to a new slot. Both the old and the new
// day are locked; on any failure the appointment keeps its original time.
func (uc *Reschedule) Execute(ctx context.Context, in RescheduleInput) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "Reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("salon.appointment_id", in.AppointmentID.String()))

	before, err := uc.deps.loadForMutation(ctx, in.AppointmentID, in.Actor)
	if err != nil {
		return nil, fail(span, err)
	}
	if domain.Status(before.Status).IsTerminal() {
		return nil, fail(span, httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", before.Status))
	}

	svc, err := uc.deps.Repo.GetService(ctx, before.ServiceID)
	if err != nil {
		return nil, fail(span, err)
	}

	duration := time.Duration(before.DurationMin) * time.Minute
	start, err := parseStart(in.Date, in.Time, duration, uc.deps.Location)
	if err != nil {
		return nil, fail(span, err)
	}
	if start.Equal(before.StartTime) {
		return nil, fail(span, httperr.ErrValidation("unchanged_time"))
	}

	now := uc.deps.now()
	target := domain.ScheduleKey{ProviderID: before.ProviderID, Date: start.Format(timezone.DateLayout)}

	var out *models.Appointment
	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(before), target}, func(ctx context.Context, tx domain.ScheduleTx) error {
		ap, err := reload(ctx, tx, before)
		if err != nil {
			return err
		}

		rules, err := tx.ListRules(ctx, ap.ProviderID)
		if err != nil {
			return err
		}
		if err := ensureCandidate(rules, svc, start, duration); err != nil {
			return err
		}

		appts, err := tx.ListAppointmentsForDate(ctx, ap.ProviderID, target.Date)
		if err != nil {
			return err
		}
		blocks, err := tx.ListBlocksForDate(ctx, ap.ProviderID, target.Date)
		if err != nil {
			return err
		}
		if err := domain.CheckSlotFree(start, duration, ap.ServiceID, appts, blocks, ap.ID, now); err != nil {
			return err
		}

		from := ap.Date + " " + ap.Time
		if err := domain.Reschedule(ap, start, duration); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		to := ap.Date + " " + ap.Time
		if _, err := uc.deps.Recorder.Record(ctx, tx, ap, in.Actor, now, audit.Entry{
			Action:      audit.ActionRescheduled,
			Field:       "start",
			Old:         from,
			New:         to,
			Description: fmt.Sprintf("moved from %s to %s", from, to),
		}); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	uc.deps.invalidate(ctx, out.ProviderID)
	uc.deps.event(notify.EventRescheduled, out)

	log.Info().
		Str("appointment_id", out.ID.String()).
		Str("from", before.StartTime.Format(timezone.DateTimeLayout)).
		Str("to", out.StartTime.Format(timezone.DateTimeLayout)).
		Str("actor", in.Actor.Label()).
		Msg("appointment rescheduled")

	return out, nil
}
