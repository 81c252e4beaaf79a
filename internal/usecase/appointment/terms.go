package appointment

import (
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// bookingTerms returns the slot duration and price of booking svc.
func bookingTerms(svc *models.Service, consultation bool) (time.Duration, float64, error) {
	if !svc.Active {
		return 0, 0, httperr.ErrValidation("service_inactive")
	}

	if consultation {
		if !svc.OffersConsultation || svc.ConsultationDurationMin <= 0 {
			return 0, 0, httperr.ErrValidation("consultation_not_offered")
		}
		return time.Duration(svc.ConsultationDurationMin) * time.Minute, 0, nil
	}

	if svc.DurationMin <= 0 {
		return 0, 0, httperr.ErrValidation("invalid_service_duration")
	}
	return time.Duration(svc.DurationMin) * time.Minute, domain.Round2(svc.Price), nil
}

// parseStart resolves a salon-local date and time and rejects bookings
// that would run past midnight.
func parseStart(date, clock string, duration time.Duration, loc *time.Location) (time.Time, error) {
	start, err := timezone.ParseDateTime(date, clock, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date_or_time")
	}

	nextMidnight := domain.DayStart(start).AddDate(0, 0, 1)
	if start.Add(duration).After(nextMidnight) {
		return time.Time{}, httperr.ErrValidation("crosses_midnight")
	}
	return start, nil
}

// ensureCandidate verifies start is one of the generated slots for its day.
func ensureCandidate(rules []models.AvailabilityRule, svc *models.Service, start time.Time, duration time.Duration) error {
	candidates := domain.GenerateSlots(rules, svc.ID, domain.DayStart(start), duration)
	if !domain.IsCandidate(candidates, start) {
		return httperr.ErrValidation("outside_availability")
	}
	return nil
}
