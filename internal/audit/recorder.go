package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Action string

const (
	ActionCreated         Action = "created"
	ActionUpdated         Action = "updated"
	ActionStatusChanged   Action = "status_changed"
	ActionPaymentReceived Action = "payment_received"
	ActionCancelled       Action = "cancelled"
	ActionCompleted       Action = "completed"
	ActionRescheduled     Action = "rescheduled"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Entry describes one change. Old and New are stored as text; non-string
// values are JSON encoded.
type Entry struct {
	Action      Action
	Field       string
	Old         any
	New         any
	Description string
}

// Appender is the storage side, normally the open schedule unit of work.
type Appender interface {
	AppendModification(ctx context.Context, rec *models.ModificationRecord) error
}

type Recorder struct {
	newID func() uuid.UUID
}

func New() *Recorder {
	return &Recorder{newID: uuid.New}
}

// Record appends one modification to ap inside the caller's unit of work.
// Prior records are never touched.
func (r *Recorder) Record(
	ctx context.Context,
	tx Appender,
	ap *models.Appointment,
	actor domain.Actor,
	now time.Time,
	e Entry,
) (models.ModificationRecord, error) {

	rec := models.ModificationRecord{
		ID:            r.newID(),
		AppointmentID: ap.ID,
		Timestamp:     now,
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ActorRole:     string(actor.Role),
		Action:        string(e.Action),
		Field:         e.Field,
		OldValue:      encode(e.Old),
		NewValue:      encode(e.New),
		Description:   e.Description,
	}

	if err := tx.AppendModification(ctx, &rec); err != nil {
		return models.ModificationRecord{}, fmt.Errorf("audit: append: %w", err)
	}

	ap.Modifications = append(ap.Modifications, rec)
	return rec, nil
}

// Recent returns at most limit records, newest first. limit 0 returns
// everything; negative or oversized limits are clamped.
func Recent(records []models.ModificationRecord, limit int) []models.ModificationRecord {
	switch {
	case limit < 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]models.ModificationRecord, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out
}

func encode(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
