package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type scheduleTx struct {
	db *gorm.DB
}

// --------------------------------------------------
// Reads shared by the repository and the transaction
// --------------------------------------------------

func listRules(db *gorm.DB, providerID uuid.UUID) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := db.
		Where("provider_id = ?", providerID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, mapErr(err, "availability_rule")
	}
	return rules, nil
}

func listBlocks(db *gorm.DB, providerID uuid.UUID, date string) ([]models.BlockedInterval, error) {
	var blocks []models.BlockedInterval
	err := db.
		Where("provider_id = ? AND date = ?", providerID, date).
		Order("start_time ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, mapErr(err, "blocked_interval")
	}
	return blocks, nil
}

func listAppointments(db *gorm.DB, providerID uuid.UUID, date string) ([]models.Appointment, error) {
	var apps []models.Appointment
	err := db.
		Preload("AdditionalServices", orderBy("added_at ASC")).
		Where("provider_id = ? AND date = ?", providerID, date).
		Order("start_time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	return apps, nil
}

func getAppointment(db *gorm.DB, id uuid.UUID) (*models.Appointment, error) {
	var ap models.Appointment
	err := db.
		Preload("AdditionalServices", orderBy("added_at ASC")).
		Preload("Modifications", orderBy("seq ASC")).
		First(&ap, "id = ?", id).Error
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	return &ap, nil
}

func orderBy(order string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Order(order) }
}

// --------------------------------------------------
// ScheduleTx
// --------------------------------------------------

func (t *scheduleTx) ListAppointmentsForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.Appointment, error) {
	return listAppointments(t.db.WithContext(ctx), providerID, date)
}

func (t *scheduleTx) ListBlocksForDate(ctx context.Context, providerID uuid.UUID, date string) ([]models.BlockedInterval, error) {
	return listBlocks(t.db.WithContext(ctx), providerID, date)
}

func (t *scheduleTx) ListRules(ctx context.Context, providerID uuid.UUID) ([]models.AvailabilityRule, error) {
	return listRules(t.db.WithContext(ctx), providerID)
}

func (t *scheduleTx) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return getAppointment(t.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (t *scheduleTx) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	return mapErr(t.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error, "appointment")
}

func (t *scheduleTx) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return mapErr(t.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error, "appointment")
}

func (t *scheduleTx) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	db := t.db.WithContext(ctx)

	if err := db.Where("appointment_id = ?", id).Delete(&models.AdditionalServiceItem{}).Error; err != nil {
		return mapErr(err, "line_item")
	}
	if err := db.Where("appointment_id = ?", id).Delete(&models.ModificationRecord{}).Error; err != nil {
		return mapErr(err, "modification")
	}

	res := db.Where("id = ?", id).Delete(&models.Appointment{})
	if res.Error != nil {
		return mapErr(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment")
	}
	return nil
}

// AppendModification relies on the (appointment_id, seq) unique index:
// two writers racing past the schedule lock would fail, not interleave.
func (t *scheduleTx) AppendModification(ctx context.Context, rec *models.ModificationRecord) error {
	db := t.db.WithContext(ctx)

	var last int
	err := db.Model(&models.ModificationRecord{}).
		Where("appointment_id = ?", rec.AppointmentID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	if err != nil {
		return mapErr(err, "modification")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Seq = last + 1
	return mapErr(db.Create(rec).Error, "modification")
}

func (t *scheduleTx) AddLineItem(ctx context.Context, item *models.AdditionalServiceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return mapErr(t.db.WithContext(ctx).Create(item).Error, "line_item")
}

func (t *scheduleTx) RemoveLineItem(ctx context.Context, appointmentID, itemID uuid.UUID) error {
	res := t.db.WithContext(ctx).
		Where("id = ? AND appointment_id = ?", itemID, appointmentID).
		Delete(&models.AdditionalServiceItem{})
	if res.Error != nil {
		return mapErr(res.Error, "line_item")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("line_item")
	}
	return nil
}

func (t *scheduleTx) CreateBlock(ctx context.Context, b *models.BlockedInterval) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return mapErr(t.db.WithContext(ctx).Create(b).Error, "blocked_interval")
}

func (t *scheduleTx) UpdateBlock(ctx context.Context, b *models.BlockedInterval) error {
	return mapErr(t.db.WithContext(ctx).Save(b).Error, "blocked_interval")
}

func (t *scheduleTx) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlockedInterval{})
	if res.Error != nil {
		return mapErr(res.Error, "blocked_interval")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("blocked_interval")
	}
	return nil
}

func (t *scheduleTx) SaveRule(ctx context.Context, r *models.AvailabilityRule) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return mapErr(t.db.WithContext(ctx).Save(r).Error, "availability_rule")
}

func (t *scheduleTx) DeleteRule(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AvailabilityRule{})
	if res.Error != nil {
		return mapErr(res.Error, "availability_rule")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("availability_rule")
	}
	return nil
}

var _ domain.ScheduleTx = (*scheduleTx)(nil)
