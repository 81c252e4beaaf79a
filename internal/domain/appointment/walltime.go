package appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WallTime is a salon-local time of day in minutes since midnight.
type WallTime int

// ParseWallTime parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseWallTime(hm string) (WallTime, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	return WallTime(h*60 + m), nil
}

func (c WallTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors c to the calendar day of day, in day's location.
func (c WallTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(c)/60, int(c)%60, 0, 0, day.Location())
}

// WallTimeOf returns the wall-clock part of t.
func WallTimeOf(t time.Time) WallTime {
	return WallTime(t.Hour()*60 + t.Minute())
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
