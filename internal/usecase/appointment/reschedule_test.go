package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

func TestReschedule_MovesAndConfirms(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))
	require.Equal(t, string(domain.StatusPending), ap.Status)

	out, err := NewReschedule(f.deps).Execute(context.Background(), RescheduleInput{
		AppointmentID: ap.ID,
		Date:          monday,
		Time:          "10:00",
		Actor:         employee,
	})
	require.NoError(t, err)

	assert.Equal(t, "10:00", out.Time)
	assert.True(t, at(10, 30).Equal(out.EndTime))
	assert.Equal(t, string(domain.StatusConfirmed), out.Status)

	stored := f.reload(t, ap.ID)
	require.Len(t, stored.Modifications, 2)
	last := stored.Modifications[1]
	assert.Equal(t, "rescheduled", last.Action)
	assert.Equal(t, monday+" 09:00", last.OldValue)
	assert.Equal(t, monday+" 10:00", last.NewValue)
	assert.Equal(t, 2, last.Seq)

	assert.Equal(t, []notify.EventType{notify.EventCreated, notify.EventRescheduled}, f.notifier.types())

	// The old slot is free again.
	f.reserve(t, f.input("09:00"))
}

func TestReschedule_ToAnotherDay(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))

	out, err := NewReschedule(f.deps).Execute(context.Background(), RescheduleInput{
		AppointmentID: ap.ID,
		Date:          "2030-01-14",
		Time:          "11:30",
		Actor:         owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "2030-01-14", out.Date)

	old, err := f.store.ListAppointmentsForDate(context.Background(), f.provider.ID, monday)
	require.NoError(t, err)
	assert.Empty(t, old)

	moved, err := f.store.ListAppointmentsForDate(context.Background(), f.provider.ID, "2030-01-14")
	require.NoError(t, err)
	assert.Len(t, moved, 1)
}

func TestReschedule_ConflictKeepsOriginal(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, f.input("09:00"))
	second := f.reserve(t, f.input("09:30"))

	_, err := NewReschedule(f.deps).Execute(context.Background(), RescheduleInput{
		AppointmentID: second.ID,
		Date:          monday,
		Time:          "09:00",
		Actor:         owner,
	})
	be := requireCode(t, err, httperr.CodeSlotNoLongerAvailable)
	assert.Equal(t, "booked", be.Detail)

	stored := f.reload(t, second.ID)
	assert.Equal(t, "09:30", stored.Time)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
	assert.Len(t, stored.Modifications, 1)
}

func TestReschedule_Rejections(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))

	cases := []struct {
		name   string
		in     RescheduleInput
		code   string
		detail string
	}{
		{
			name:   "unchanged time",
			in:     RescheduleInput{AppointmentID: ap.ID, Date: monday, Time: "09:00", Actor: owner},
			code:   httperr.CodeValidation,
			detail: "unchanged_time",
		},
		{
			name:   "outside availability",
			in:     RescheduleInput{AppointmentID: ap.ID, Date: monday, Time: "13:00", Actor: owner},
			code:   httperr.CodeValidation,
			detail: "outside_availability",
		},
		{
			name:   "bad date",
			in:     RescheduleInput{AppointmentID: ap.ID, Date: "07/01/2030", Time: "10:00", Actor: owner},
			code:   httperr.CodeValidation,
			detail: "invalid_date_or_time",
		},
		{
			name: "unlinked employee",
			in:   RescheduleInput{AppointmentID: ap.ID, Date: monday, Time: "10:00", Actor: stranger},
			code: httperr.CodeForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReschedule(f.deps).Execute(context.Background(), tc.in)
			be := requireCode(t, err, tc.code)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, be.Detail)
			}
		})
	}
}

func TestReschedule_IntoThePast(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("11:00"))
	f.clock.Set(at(10, 0))

	_, err := NewReschedule(f.deps).Execute(context.Background(), RescheduleInput{
		AppointmentID: ap.ID,
		Date:          monday,
		Time:          "09:30",
		Actor:         owner,
	})
	be := requireCode(t, err, httperr.CodeSlotNoLongerAvailable)
	assert.Equal(t, "slot_in_past", be.Detail)
}

func TestReschedule_TerminalAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))
	_, err := NewChangeStatus(f.deps).Execute(context.Background(), ChangeStatusInput{
		AppointmentID: ap.ID,
		Status:        string(domain.StatusCancelled),
		Actor:         owner,
	})
	require.NoError(t, err)

	_, err = NewReschedule(f.deps).Execute(context.Background(), RescheduleInput{
		AppointmentID: ap.ID,
		Date:          monday,
		Time:          "10:00",
		Actor:         owner,
	})
	requireCode(t, err, httperr.CodeIllegalTransition)
}
