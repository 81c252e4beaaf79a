package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCreated       = "created"
	OutcomeSlotTaken     = "slot_taken"
	OutcomeTimeout       = "timeout"
	OutcomePaymentFailed = "payment_failed"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"

	// TargetInvalid stands in for any requested status that is not a
	// lifecycle status.
	TargetInvalid = "invalid"
)

// SchedulingMetrics exposes counters/histograms for the booking engine.
// A nil *SchedulingMetrics is valid and records nothing.
type SchedulingMetrics struct {
	reservations *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	lockWait     prometheus.Histogram
	slotQueries  *prometheus.CounterVec
	reminders    prometheus.Counter
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes by target status and outcome",
		}, []string{"to", "outcome"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "schedule_lock_seconds",
			Help:      "Time spent inside a schedule unit of work, lock wait included",
			Buckets:   prometheus.DefBuckets,
		}),
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "slot_queries_total",
			Help:      "Candidate slot queries by cache result",
		}, []string{"cache"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "reminders_emitted_total",
			Help:      "Reminder events handed to the notifier",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.transitions, m.lockWait, m.slotQueries, m.reminders)
	return m
}

func (m *SchedulingMetrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveTransition(to, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, outcome).Inc()
}

func (m *SchedulingMetrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}

func (m *SchedulingMetrics) ObserveSlotQuery(cacheHit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.slotQueries.WithLabelValues(label).Inc()
}

func (m *SchedulingMetrics) ObserveReminders(n int) {
	if m == nil {
		return
	}
	m.reminders.Add(float64(n))
}
