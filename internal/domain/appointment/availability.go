package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	ProviderID     uuid.UUID
	ServiceID      uuid.UUID
	Date           time.Time
	IsConsultation bool
}

type SlotStatus string

const (
	SlotPast      SlotStatus = "past"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
	SlotAvailable SlotStatus = "available"
)

// ResolvedSlot is a candidate start classified against the schedule.
// The flags are independent; Status reports the first that applies in
// the order past, booked, blocked.
type ResolvedSlot struct {
	Start   time.Time  `json:"start"`
	End     time.Time  `json:"end"`
	Past    bool       `json:"past"`
	Booked  bool       `json:"booked"`
	Blocked bool       `json:"blocked"`
	Status  SlotStatus `json:"status"`
}

func (s ResolvedSlot) Available() bool {
	return !s.Past && !s.Booked && !s.Blocked
}

// Reclassify refreshes the time-dependent part of s.
func (s *ResolvedSlot) Reclassify(now time.Time) {
	s.Past = HasStarted(s.Start, now)
	s.Status = classify(s.Past, s.Booked, s.Blocked)
}

func classify(past, booked, blocked bool) SlotStatus {
	switch {
	case past:
		return SlotPast
	case booked:
		return SlotBooked
	case blocked:
		return SlotBlocked
	}
	return SlotAvailable
}

// Overlaps is the half-open interval test: touching ranges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BlockApplies reports whether b excludes time for serviceID.
func BlockApplies(b models.BlockedInterval, serviceID uuid.UUID) bool {
	return b.ServiceID == nil || *b.ServiceID == serviceID
}

// BlockRange resolves b to absolute instants in loc. A block without an
// end covers exactly one slot of the given duration.
func BlockRange(b models.BlockedInterval, loc *time.Location, duration time.Duration) (time.Time, time.Time, error) {
	day, err := timezone.ParseDate(b.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := ParseWallTime(b.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := from.On(day)
	if b.EndTime == nil || *b.EndTime == "" {
		return start, start.Add(duration), nil
	}
	to, err := ParseWallTime(*b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, to.On(day), nil
}

// ResolveSlots classifies every candidate start against existing
// appointments and blocks.
func ResolveSlots(
	candidates []time.Time,
	duration time.Duration,
	serviceID uuid.UUID,
	appointments []models.Appointment,
	blocks []models.BlockedInterval,
	now time.Time,
) []ResolvedSlot {

	out := make([]ResolvedSlot, 0, len(candidates))
	for _, start := range candidates {
		end := start.Add(duration)

		slot := ResolvedSlot{
			Start:   start,
			End:     end,
			Booked:  findBookedConflict(start, end, appointments, uuid.Nil) != nil,
			Blocked: blockConflict(start, end, duration, serviceID, blocks),
		}
		slot.Reclassify(now)
		out = append(out, slot)
	}
	return out
}

// CheckSlotFree is the authoritative re-check run inside the unit of
// work. exclude skips the appointment being rescheduled.
func CheckSlotFree(
	start time.Time,
	duration time.Duration,
	serviceID uuid.UUID,
	appointments []models.Appointment,
	blocks []models.BlockedInterval,
	exclude uuid.UUID,
	now time.Time,
) error {

	end := start.Add(duration)
	if HasStarted(start, now) {
		return httperr.ErrSlotTaken("slot_in_past")
	}
	if findBookedConflict(start, end, appointments, exclude) != nil {
		return httperr.ErrSlotTaken("booked")
	}
	if blockConflict(start, end, duration, serviceID, blocks) {
		return httperr.ErrSlotTaken("blocked")
	}
	return nil
}

func findBookedConflict(start, end time.Time, appointments []models.Appointment, exclude uuid.UUID) *models.Appointment {
	for i := range appointments {
		ap := &appointments[i]
		if ap.ID == exclude || !Status(ap.Status).Occupies() {
			continue
		}
		if Overlaps(start, end, ap.StartTime, ap.EndTime) {
			return ap
		}
	}
	return nil
}

func blockConflict(start, end time.Time, duration time.Duration, serviceID uuid.UUID, blocks []models.BlockedInterval) bool {
	for _, b := range blocks {
		if !BlockApplies(b, serviceID) {
			continue
		}
		bStart, bEnd, err := BlockRange(b, start.Location(), duration)
		if err != nil {
			continue
		}
		if Overlaps(start, end, bStart, bEnd) {
			return true
		}
	}
	return false
}
