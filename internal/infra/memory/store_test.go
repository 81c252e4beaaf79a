package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func newAppointment(providerID uuid.UUID) *models.Appointment {
	start := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	return &models.Appointment{
		ProviderID: providerID,
		ClientName: "Maria",
		Date:       "2030-01-07",
		Time:       "09:00",
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     string(domain.StatusConfirmed),
	}
}

func TestStore_RollbackUndoesEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	providerID := uuid.New()
	key := domain.ScheduleKey{ProviderID: providerID, Date: "2030-01-07"}

	ap := newAppointment(providerID)
	boom := errors.New("boom")

	err := s.InSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		require.NoError(t, tx.CreateAppointment(ctx, ap))
		require.NoError(t, tx.AppendModification(ctx, &models.ModificationRecord{AppointmentID: ap.ID, Action: "created"}))
		require.NoError(t, tx.AddLineItem(ctx, &models.AdditionalServiceItem{AppointmentID: ap.ID, Name: "Brow", Price: 10}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetAppointment(ctx, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	list, err := s.ListAppointmentsForDate(ctx, providerID, "2030-01-07")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_AppendModificationAssignsSeq(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	providerID := uuid.New()
	key := domain.ScheduleKey{ProviderID: providerID, Date: "2030-01-07"}
	ap := newAppointment(providerID)

	require.NoError(t, s.InSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if err := tx.AppendModification(ctx, &models.ModificationRecord{AppointmentID: ap.ID, Action: "updated"}); err != nil {
				return err
			}
		}
		return nil
	}))

	got, err := s.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	require.Len(t, got.Modifications, 3)
	for i, m := range got.Modifications {
		assert.Equal(t, i+1, m.Seq)
	}
}

func TestStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	providerID := uuid.New()
	key := domain.ScheduleKey{ProviderID: providerID, Date: "2030-01-07"}
	ap := newAppointment(providerID)

	require.NoError(t, s.InSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.AppendModification(ctx, &models.ModificationRecord{AppointmentID: ap.ID, Action: "created"})
	}))

	first, err := s.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	first.Status = string(domain.StatusCancelled)
	first.Modifications[0].Description = "tampered"

	again, err := s.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), again.Status)
	assert.Empty(t, again.Modifications[0].Description)
}

func TestStore_LockTimeout(t *testing.T) {
	ctx := context.Background()
	s := NewStore(50 * time.Millisecond)
	key := domain.ScheduleKey{ProviderID: uuid.New(), Date: "2030-01-07"}

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.InSchedule(ctx, []domain.ScheduleKey{key}, func(context.Context, domain.ScheduleTx) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := s.InSchedule(ctx, []domain.ScheduleKey{key}, func(context.Context, domain.ScheduleTx) error {
		t.Fatal("must not run without the lock")
		return nil
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeReservationTimeout))

	close(release)
	require.NoError(t, <-done)

	assert.NoError(t, s.InSchedule(ctx, []domain.ScheduleKey{key}, func(context.Context, domain.ScheduleTx) error { return nil }))
}

func TestStore_RemoveMissingLineItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)

	err := s.InSchedule(ctx, nil, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.RemoveLineItem(ctx, uuid.New(), uuid.New())
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}
