package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewScheduleGormRepository(db *gorm.DB, lockTimeout time.Duration) *ScheduleGormRepository {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &ScheduleGormRepository{db: db, lockTimeout: lockTimeout}
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *ScheduleGormRepository) GetProvider(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, "provider")
	}
	return &p, nil
}

func (r *ScheduleGormRepository) ListProviders(ctx context.Context, activeOnly bool) ([]models.Provider, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var out []models.Provider
	if err := q.Find(&out).Error; err != nil {
		return nil, mapErr(err, "provider")
	}
	return out, nil
}

func (r *ScheduleGormRepository) SaveProvider(ctx context.Context, p *models.Provider) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return mapErr(r.db.WithContext(ctx).Save(p).Error, "provider")
}

func (r *ScheduleGormRepository) CountAppointmentsForProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("provider_id = ?", providerID).
		Count(&n).Error
	return n, mapErr(err, "appointment")
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, "service")
	}
	return &s, nil
}

func (r *ScheduleGormRepository) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var out []models.Service
	if err := q.Find(&out).Error; err != nil {
		return nil, mapErr(err, "service")
	}
	return out, nil
}

func (r *ScheduleGormRepository) SaveService(ctx context.Context, s *models.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return mapErr(r.db.WithContext(ctx).Save(s).Error, "service")
}

// --------------------------------------------------
// Rules & blocks
// --------------------------------------------------

func (r *ScheduleGormRepository) ListRules(ctx context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error) {
	return listRules(r.db.WithContext(ctx), providerID)
}

func (r *ScheduleGormRepository) GetRule(ctx context.Context, id uuid.UUID) (*models.AvailabilityRule, error) {
	var rule models.AvailabilityRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, "availability_rule")
	}
	return &rule, nil
}

func (r *ScheduleGormRepository) GetBlock(ctx context.Context, id uuid.UUID) (*models.BlockedInterval, error) {
	var b models.BlockedInterval
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, "blocked_interval")
	}
	return &b, nil
}

func (r *ScheduleGormRepository) ListBlocksForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error) {
	return listBlocks(r.db.WithContext(ctx), providerID, date)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return getAppointment(r.db.WithContext(ctx), id)
}

func (r *ScheduleGormRepository) ListAppointmentsForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error) {
	return listAppointments(r.db.WithContext(ctx), providerID, date)
}

func (r *ScheduleGormRepository) ListAppointmentsStartingBetween(
	ctx context.Context,
	status domain.Status,
	from, to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time < ?", string(status), from, to).
		Order("start_time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	return apps, nil
}

// --------------------------------------------------
// Unit of work
// --------------------------------------------------

// InSchedule opens a transaction, bounds every lock wait with
// lock_timeout and takes one transaction-scoped advisory lock per
// (provider, date) key, in sorted order.
func (r *ScheduleGormRepository) InSchedule(
	ctx context.Context,
	keys []domain.ScheduleKey,
	fn func(ctx context.Context, tx domain.ScheduleTx) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ms := r.lockTimeout.Milliseconds()
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)).Error; err != nil {
			return err
		}

		for _, k := range domain.SortKeys(keys) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", k.String()).Error; err != nil {
				return err
			}
		}

		return fn(ctx, &scheduleTx{db: tx})
	})

	return mapErr(err, "schedule")
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
