package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type fakeAppender struct {
	records []models.ModificationRecord
	err     error
}

func (f *fakeAppender) AppendModification(_ context.Context, rec *models.ModificationRecord) error {
	if f.err != nil {
		return f.err
	}
	rec.Seq = len(f.records) + 1
	f.records = append(f.records, *rec)
	return nil
}

func TestRecorder_Record(t *testing.T) {
	tx := &fakeAppender{}
	ap := &models.Appointment{ID: uuid.New()}
	actor := domain.Actor{ID: "u-1", Name: "Ana", Role: domain.RoleEmployee}
	now := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

	rec, err := New().Record(context.Background(), tx, ap, actor, now, Entry{
		Action:      ActionStatusChanged,
		Field:       "status",
		Old:         domain.StatusPending,
		New:         domain.StatusConfirmed,
		Description: "confirmed manually",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Seq)
	assert.Equal(t, ap.ID, rec.AppointmentID)
	assert.Equal(t, "pending", rec.OldValue)
	assert.Equal(t, "confirmed", rec.NewValue)
	assert.Equal(t, "employee", rec.ActorRole)
	assert.Equal(t, now, rec.Timestamp)
	require.Len(t, ap.Modifications, 1)
	assert.Equal(t, rec, ap.Modifications[0])
}

func TestRecorder_EncodesNonStringValues(t *testing.T) {
	tx := &fakeAppender{}
	ap := &models.Appointment{ID: uuid.New()}

	rec, err := New().Record(context.Background(), tx, ap, domain.Actor{Name: "x", Role: domain.RoleOwner}, time.Now(), Entry{
		Action: ActionUpdated,
		Field:  "additional_services",
		New:    map[string]any{"name": "Brow", "price": 20},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Brow","price":20}`, rec.NewValue)
	assert.Empty(t, rec.OldValue)
}

func TestRecorder_StoreFailureLeavesAppointmentUntouched(t *testing.T) {
	tx := &fakeAppender{err: errors.New("db down")}
	ap := &models.Appointment{ID: uuid.New()}

	_, err := New().Record(context.Background(), tx, ap, domain.Actor{Name: "x", Role: domain.RoleOwner}, time.Now(), Entry{Action: ActionCreated})

	assert.Error(t, err)
	assert.Empty(t, ap.Modifications)
}

func TestRecent(t *testing.T) {
	var records []models.ModificationRecord
	for i := 1; i <= 250; i++ {
		records = append(records, models.ModificationRecord{Seq: i})
	}

	got := Recent(records, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []int{250, 249, 248}, []int{got[0].Seq, got[1].Seq, got[2].Seq})

	assert.Len(t, Recent(records, 0), 250)
	assert.Len(t, Recent(records, 1000), MaxHistoryLimit)
	assert.Len(t, Recent(records, -1), DefaultHistoryLimit)
	assert.Empty(t, Recent(nil, 5))
}
