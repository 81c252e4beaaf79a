package dto

import (
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type SlotDTO struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	// Reason is past, booked or blocked when not available.
	Reason string `json:"reason,omitempty"`
}

func ToSlots(slots []domain.ResolvedSlot, loc *time.Location) []SlotDTO {
	out := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		d := SlotDTO{
			Time:      s.Start.In(loc).Format(timezone.ClockLayout),
			Available: s.Available(),
		}
		if !d.Available {
			d.Reason = string(s.Status)
		}
		out = append(out, d)
	}
	return out
}
