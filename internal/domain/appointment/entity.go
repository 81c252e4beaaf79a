package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to status `to` on behalf of actor and stamps the
// matching lifecycle fields.
func Transition(ap *models.Appointment, to Status, actor Actor, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to, ap.StartTime, now); err != nil {
		return err
	}

	by := actor.Label()
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancelledBy = by
	case StatusCompleted:
		ap.CompletedAt = &now
		ap.CompletedBy = by
	case StatusNoShow:
		ap.NoShowAt = &now
		ap.NoShowBy = by
	}

	ap.Status = string(to)
	return nil
}

func Cancel(ap *models.Appointment, actor Actor, now time.Time) error {
	return Transition(ap, StatusCancelled, actor, now)
}

func Complete(ap *models.Appointment, actor Actor, now time.Time) error {
	return Transition(ap, StatusCompleted, actor, now)
}

func MarkNoShow(ap *models.Appointment, actor Actor, now time.Time) error {
	return Transition(ap, StatusNoShow, actor, now)
}

// Reschedule moves a live appointment to a new start. The caller has
// already verified the target range is free.
func Reschedule(ap *models.Appointment, start time.Time, duration time.Duration) error {
	if Status(ap.Status).IsTerminal() {
		return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", ap.Status)
	}

	ap.Date = start.Format(timezone.DateLayout)
	ap.Time = start.Format(timezone.ClockLayout)
	ap.StartTime = start
	ap.EndTime = start.Add(duration)
	ap.DurationMin = int(duration / time.Minute)
	ap.Status = string(StatusConfirmed)
	return nil
}
