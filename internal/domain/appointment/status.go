package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

var errWindowOrder = errors.New("end must be after start")

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Occupies reports whether an appointment in this status holds its time range.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// InitialStatus: a captured deposit (or no deposit policy) confirms the booking.
func InitialStatus(depositRequired, depositCaptured bool) Status {
	if depositRequired && !depositCaptured {
		return StatusPending
	}
	return StatusConfirmed
}

// HasStarted is the single boundary rule for "in the past": the start
// instant itself counts as started.
func HasStarted(start, now time.Time) bool {
	return !start.After(now)
}

// ===============================
// Validations
// ===============================

// CanTransition validates from -> to for an appointment starting at start.
func CanTransition(from, to Status, start, now time.Time) error {
	if from.IsTerminal() {
		return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", from)
	}
	if from == to {
		return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", to)
	}

	switch to {
	case StatusCancelled:
		return nil
	case StatusConfirmed:
		return nil
	case StatusCompleted:
		if !HasStarted(start, now) {
			return httperr.ErrIllegalTransition("cannot complete an appointment before it starts")
		}
		return nil
	case StatusNoShow:
		if !HasStarted(start, now) {
			return httperr.ErrIllegalTransition("cannot mark no-show before the appointment time")
		}
		return nil
	case StatusPending:
		return httperr.ErrIllegalTransition("cannot move an appointment back to pending")
	}

	return httperr.ErrValidation("unknown_status")
}
