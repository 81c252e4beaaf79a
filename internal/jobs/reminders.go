package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type AppointmentLister interface {
	ListAppointmentsStartingBetween(ctx context.Context, status domain.Status, from, to time.Time) ([]models.Appointment, error)
}

// Reminders notifies clients of confirmed appointments starting in
// [now+Lead-Window, now+Lead). Window should match the cron interval so
// each appointment falls into exactly one run.
type Reminders struct {
	Repo     AppointmentLister
	Notifier notify.Notifier
	Clock    timezone.Clock
	Metrics  *metrics.SchedulingMetrics
	Lead     time.Duration
	Window   time.Duration
}

// Run performs one sweep and returns how many reminders were queued.
func (r *Reminders) Run(ctx context.Context) (int, error) {
	now := r.Clock.Now()
	to := now.Add(r.Lead)
	from := to.Add(-r.Window)

	appts, err := r.Repo.ListAppointmentsStartingBetween(ctx, domain.StatusConfirmed, from, to)
	if err != nil {
		return 0, err
	}

	for i := range appts {
		ap := &appts[i]
		r.Notifier.Notify(notify.Event{
			Type:          notify.EventReminder,
			AppointmentID: ap.ID,
			ProviderID:    ap.ProviderID,
			ClientName:    ap.ClientName,
			ClientEmail:   ap.ClientEmail,
			ClientPhone:   ap.ClientPhone,
			Start:         ap.StartTime,
			OccurredAt:    now,
		})
	}

	r.Metrics.ObserveReminders(len(appts))
	return len(appts), nil
}

// Start registers the sweep on the cron expression and starts the scheduler. The caller
// stops it on shutdown.
func (r *Reminders) Start(expr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := r.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("reminder sweep failed")
			return
		}
		if n > 0 {
			log.Info().Int("count", n).Msg("reminders queued")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("schedule", expr).Dur("lead", r.Lead).Msg("reminder job started")
	return c, nil
}
