package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventCreated     EventType = "appointment.created"
	EventRescheduled EventType = "appointment.rescheduled"
	EventCancelled   EventType = "appointment.cancelled"
	EventReminder    EventType = "appointment.reminder"
)

const DefaultQueueSize = 100

type Event struct {
	Type          EventType `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	Start         time.Time `json:"start"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier receives events after the owning mutation has committed.
// Implementations must not block the caller.
type Notifier interface {
	Notify(ev Event)
}

// Publisher delivers one event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	pub     Publisher
	queue   chan Event
	timeout time.Duration

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(pub Publisher, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}

	d := &Dispatcher{
		pub:     pub,
		queue:   make(chan Event, size),
		timeout: 5 * time.Second,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.pub.Publish(ctx, ev); err != nil {
			log.Error().
				Err(err).
				Str("event", string(ev.Type)).
				Str("appointment_id", ev.AppointmentID.String()).
				Msg("notification publish failed")
		}
		cancel()
	}
}

// Notify enqueues ev; a full queue drops it.
func (d *Dispatcher) Notify(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().
			Str("event", string(ev.Type)).
			Str("appointment_id", ev.AppointmentID.String()).
			Msg("notification queue full, dropping event")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

type Nop struct{}

func (Nop) Notify(Event) {}
