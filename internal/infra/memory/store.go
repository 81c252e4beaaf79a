package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var _ domain.Repository = (*Store)(nil)

const DefaultLockTimeout = 5 * time.Second

// Store keeps the whole schedule in process memory. Writes made inside
// InSchedule are applied immediately and undone if the unit fails, so
// readers outside a unit may briefly observe uncommitted rows; writers
// always hold the schedule keys.
type Store struct {
	mu sync.RWMutex

	providers    map[uuid.UUID]models.Provider
	services     map[uuid.UUID]models.Service
	rules        map[uuid.UUID]models.AvailabilityRule
	blocks       map[uuid.UUID]models.BlockedInterval
	appointments map[uuid.UUID]models.Appointment
	items        map[uuid.UUID][]models.AdditionalServiceItem
	mods         map[uuid.UUID][]models.ModificationRecord

	locks       *keyLocks
	lockTimeout time.Duration
}

func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		providers:    make(map[uuid.UUID]models.Provider),
		services:     make(map[uuid.UUID]models.Service),
		rules:        make(map[uuid.UUID]models.AvailabilityRule),
		blocks:       make(map[uuid.UUID]models.BlockedInterval),
		appointments: make(map[uuid.UUID]models.Appointment),
		items:        make(map[uuid.UUID][]models.AdditionalServiceItem),
		mods:         make(map[uuid.UUID][]models.ModificationRecord),
		locks:        newKeyLocks(),
		lockTimeout:  lockTimeout,
	}
}

// ======================================================
// Catalog
// ======================================================

func (s *Store) GetProvider(_ context.Context, id uuid.UUID) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, httperr.ErrNotFound("provider")
	}
	return &p, nil
}

func (s *Store) ListProviders(_ context.Context, activeOnly bool) ([]models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveProvider(_ context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	s.providers[p.ID] = *p
	return nil
}

func (s *Store) CountAppointmentsForProvider(_ context.Context, providerID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, ap := range s.appointments {
		if ap.ProviderID == providerID {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, httperr.ErrNotFound("service")
	}
	return &svc, nil
}

func (s *Store) ListServices(_ context.Context, activeOnly bool) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		if activeOnly && !svc.Active {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
	s.services[svc.ID] = *svc
	return nil
}

// ======================================================
// Rules & blocks
// ======================================================

func (s *Store) ListRules(_ context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRules(providerID), nil
}

func (s *Store) listRules(providerID uuid.UUID) []models.AvailabilityRule {
	out := make([]models.AvailabilityRule, 0)
	for _, r := range s.rules {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (s *Store) GetRule(_ context.Context, id uuid.UUID) (*models.AvailabilityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, httperr.ErrNotFound("availability_rule")
	}
	return &r, nil
}

func (s *Store) GetBlock(_ context.Context, id uuid.UUID) (*models.BlockedInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blocks[id]
	if !ok {
		return nil, httperr.ErrNotFound("blocked_interval")
	}
	return &b, nil
}

func (s *Store) ListBlocksForDate(_ context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listBlocks(providerID, date), nil
}

func (s *Store) listBlocks(providerID uuid.UUID, date string) []models.BlockedInterval {
	out := make([]models.BlockedInterval, 0)
	for _, b := range s.blocks {
		if b.ProviderID == providerID && b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// ======================================================
// Appointments
// ======================================================

func (s *Store) GetAppointment(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAppointment(id)
}

func (s *Store) getAppointment(id uuid.UUID) (*models.Appointment, error) {
	ap, ok := s.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment")
	}
	ap.AdditionalServices = append([]models.AdditionalServiceItem(nil), s.items[id]...)
	ap.Modifications = append([]models.ModificationRecord(nil), s.mods[id]...)
	return &ap, nil
}

func (s *Store) ListAppointmentsForDate(_ context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(providerID, date), nil
}

func (s *Store) listAppointments(providerID uuid.UUID, date string) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, ap := range s.appointments {
		if ap.ProviderID == providerID && ap.Date == date {
			ap.AdditionalServices = append([]models.AdditionalServiceItem(nil), s.items[ap.ID]...)
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (s *Store) ListAppointmentsStartingBetween(
	_ context.Context,
	status domain.Status,
	from, to time.Time,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, ap := range s.appointments {
		if ap.Status != string(status) {
			continue
		}
		if ap.StartTime.Before(from) || !ap.StartTime.Before(to) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// ======================================================
// Unit of work
// ======================================================

func (s *Store) InSchedule(
	ctx context.Context,
	keys []domain.ScheduleKey,
	fn func(ctx context.Context, tx domain.ScheduleTx) error,
) error {

	for _, k := range domain.SortKeys(keys) {
		release, err := s.locks.acquire(ctx, k.String(), s.lockTimeout)
		if err != nil {
			return err
		}
		defer release()
	}

	tx := &scheduleTx{s: s}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func stamp(id *uuid.UUID, created, updated *time.Time) {
	now := time.Now()
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
