package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var _ domain.ScheduleTx = (*scheduleTx)(nil)

type scheduleTx struct {
	s    *Store
	undo []func()
}

func (t *scheduleTx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// write runs apply under the store lock and remembers how to revert it.
// revert also runs under the store lock.
func (t *scheduleTx) write(apply func() (revert func(), err error)) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	revert, err := apply()
	if err != nil {
		return err
	}
	t.undo = append(t.undo, revert)
	return nil
}

// -------- reads --------

func (t *scheduleTx) ListAppointmentsForDate(_ context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.listAppointments(providerID, date), nil
}

func (t *scheduleTx) ListBlocksForDate(_ context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.listBlocks(providerID, date), nil
}

func (t *scheduleTx) ListRules(_ context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.listRules(providerID), nil
}

func (t *scheduleTx) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.getAppointment(id)
}

// -------- appointments --------

func (t *scheduleTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	return t.write(func() (func(), error) {
		stamp(&ap.ID, &ap.CreatedAt, &ap.UpdatedAt)
		if _, exists := t.s.appointments[ap.ID]; exists {
			return nil, httperr.ErrValidation("duplicate_appointment_id")
		}

		row := *ap
		row.AdditionalServices = nil
		row.Modifications = nil
		t.s.appointments[ap.ID] = row

		id := ap.ID
		return func() { delete(t.s.appointments, id) }, nil
	})
}

func (t *scheduleTx) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	return t.write(func() (func(), error) {
		prev, ok := t.s.appointments[ap.ID]
		if !ok {
			return nil, httperr.ErrNotFound("appointment")
		}

		ap.UpdatedAt = time.Now()
		row := *ap
		row.AdditionalServices = nil
		row.Modifications = nil
		t.s.appointments[ap.ID] = row

		return func() { t.s.appointments[prev.ID] = prev }, nil
	})
}

func (t *scheduleTx) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	return t.write(func() (func(), error) {
		prev, ok := t.s.appointments[id]
		if !ok {
			return nil, httperr.ErrNotFound("appointment")
		}
		items := t.s.items[id]
		mods := t.s.mods[id]

		delete(t.s.appointments, id)
		delete(t.s.items, id)
		delete(t.s.mods, id)

		return func() {
			t.s.appointments[id] = prev
			if items != nil {
				t.s.items[id] = items
			}
			if mods != nil {
				t.s.mods[id] = mods
			}
		}, nil
	})
}

func (t *scheduleTx) AppendModification(_ context.Context, rec *models.ModificationRecord) error {
	return t.write(func() (func(), error) {
		if _, ok := t.s.appointments[rec.AppointmentID]; !ok {
			return nil, httperr.ErrNotFound("appointment")
		}
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}

		prev := t.s.mods[rec.AppointmentID]
		rec.Seq = len(prev) + 1

		next := make([]models.ModificationRecord, len(prev), len(prev)+1)
		copy(next, prev)
		t.s.mods[rec.AppointmentID] = append(next, *rec)

		id := rec.AppointmentID
		return func() { t.s.mods[id] = prev }, nil
	})
}

func (t *scheduleTx) AddLineItem(_ context.Context, item *models.AdditionalServiceItem) error {
	return t.write(func() (func(), error) {
		if _, ok := t.s.appointments[item.AppointmentID]; !ok {
			return nil, httperr.ErrNotFound("appointment")
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}

		prev := t.s.items[item.AppointmentID]
		next := make([]models.AdditionalServiceItem, len(prev), len(prev)+1)
		copy(next, prev)
		t.s.items[item.AppointmentID] = append(next, *item)

		id := item.AppointmentID
		return func() { t.s.items[id] = prev }, nil
	})
}

func (t *scheduleTx) RemoveLineItem(_ context.Context, appointmentID, itemID uuid.UUID) error {
	return t.write(func() (func(), error) {
		prev := t.s.items[appointmentID]

		next := make([]models.AdditionalServiceItem, 0, len(prev))
		for _, it := range prev {
			if it.ID != itemID {
				next = append(next, it)
			}
		}
		if len(next) == len(prev) {
			return nil, httperr.ErrNotFound("line_item")
		}
		t.s.items[appointmentID] = next

		return func() { t.s.items[appointmentID] = prev }, nil
	})
}

// -------- blocks & rules --------

func (t *scheduleTx) CreateBlock(_ context.Context, b *models.BlockedInterval) error {
	return t.write(func() (func(), error) {
		stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		t.s.blocks[b.ID] = *b

		id := b.ID
		return func() { delete(t.s.blocks, id) }, nil
	})
}

func (t *scheduleTx) UpdateBlock(_ context.Context, b *models.BlockedInterval) error {
	return t.write(func() (func(), error) {
		prev, ok := t.s.blocks[b.ID]
		if !ok {
			return nil, httperr.ErrNotFound("blocked_interval")
		}
		b.UpdatedAt = time.Now()
		t.s.blocks[b.ID] = *b

		return func() { t.s.blocks[prev.ID] = prev }, nil
	})
}

func (t *scheduleTx) DeleteBlock(_ context.Context, id uuid.UUID) error {
	return t.write(func() (func(), error) {
		prev, ok := t.s.blocks[id]
		if !ok {
			return nil, httperr.ErrNotFound("blocked_interval")
		}
		delete(t.s.blocks, id)

		return func() { t.s.blocks[id] = prev }, nil
	})
}

func (t *scheduleTx) SaveRule(_ context.Context, r *models.AvailabilityRule) error {
	return t.write(func() (func(), error) {
		prev, existed := t.s.rules[r.ID]
		stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
		t.s.rules[r.ID] = *r

		id := r.ID
		return func() {
			if existed {
				t.s.rules[id] = prev
				return
			}
			delete(t.s.rules, id)
		}, nil
	})
}

func (t *scheduleTx) DeleteRule(_ context.Context, id uuid.UUID) error {
	return t.write(func() (func(), error) {
		prev, ok := t.s.rules[id]
		if !ok {
			return nil, httperr.ErrNotFound("availability_rule")
		}
		delete(t.s.rules, id)

		return func() { t.s.rules[id] = prev }, nil
	})
}
