package appointment

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// RuleApplies reports whether r covers the calendar day of date:
// same weekday and inside the optional validity window.
func RuleApplies(r models.AvailabilityRule, date time.Time) bool {
	if r.DayOfWeek != int(date.Weekday()) {
		return false
	}

	day := date.Format(timezone.DateLayout)
	if r.StartDate != nil && *r.StartDate != "" && day < *r.StartDate {
		return false
	}
	if r.EndDate != nil && *r.EndDate != "" && day > *r.EndDate {
		return false
	}
	return true
}

// ApplicableRules selects the rules governing serviceID on date.
// Service-specific rules shadow the provider's generic rules for that day.
func ApplicableRules(
	rules []models.AvailabilityRule,
	serviceID uuid.UUID,
	date time.Time,
) []models.AvailabilityRule {

	var specific, generic []models.AvailabilityRule
	for _, r := range rules {
		if !RuleApplies(r, date) {
			continue
		}
		switch {
		case r.ServiceID == nil:
			generic = append(generic, r)
		case *r.ServiceID == serviceID:
			specific = append(specific, r)
		}
	}

	if len(specific) > 0 {
		return specific
	}
	return generic
}

// GenerateSlots expands the applicable rule windows of date into candidate
// start times, stepping by duration. Overlapping windows collapse into one
// sorted set. An empty result means the provider is closed that day.
func GenerateSlots(
	rules []models.AvailabilityRule,
	serviceID uuid.UUID,
	date time.Time,
	duration time.Duration,
) []time.Time {

	step := WallTime(duration / time.Minute)
	if step <= 0 {
		return nil
	}

	seen := make(map[WallTime]struct{})
	for _, r := range ApplicableRules(rules, serviceID, date) {
		if !r.IsAvailable {
			continue
		}
		start, err := ParseWallTime(r.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseWallTime(r.EndTime)
		if err != nil {
			continue
		}

		for cur := start; cur+step <= end; cur += step {
			seen[cur] = struct{}{}
		}
	}

	clocks := make([]WallTime, 0, len(seen))
	for c := range seen {
		clocks = append(clocks, c)
	}
	sort.Slice(clocks, func(i, j int) bool { return clocks[i] < clocks[j] })

	out := make([]time.Time, 0, len(clocks))
	for _, c := range clocks {
		out = append(out, c.On(date))
	}
	return out
}

// IsCandidate reports whether start is one of the generated slots.
func IsCandidate(candidates []time.Time, start time.Time) bool {
	for _, c := range candidates {
		if c.Equal(start) {
			return true
		}
	}
	return false
}

// ValidateWindow checks a rule or block window before it is stored.
func ValidateWindow(start, end string) error {
	s, err := ParseWallTime(start)
	if err != nil {
		return err
	}
	e, err := ParseWallTime(end)
	if err != nil {
		return err
	}
	if e <= s {
		return errWindowOrder
	}
	return nil
}
