package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidShiftTime is returned when a configured shift time string cannot
// be parsed. Callers must treat this as "cannot determine the shift boundary"
// and fail the operation instead of substituting a default.
var ErrInvalidShiftTime = errors.New("invalid shift time format")

// TimeOfDay is a wall-clock time with minute precision, independent of any date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	meridiem := "AM"
	if t.Hour >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, meridiem)
}

// UTCDateKey returns UTC midnight of the calendar date containing t.
// Every attendance record lookup keys on this value.
func UTCDateKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseShiftTime parses a strict 12-hour "H:MM AM|PM" string (e.g. "9:00 AM",
// "12:30 pm"). A 24-hour "HH:MM" form is also accepted since older department
// rows carry it. Malformed input returns ErrInvalidShiftTime, never a default.
func ParseShiftTime(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty string", ErrInvalidShiftTime)
	}

	parts := strings.Fields(trimmed)
	switch len(parts) {
	case 1:
		// 24-hour "HH:MM"
		hour, minute, err := splitClock(parts[0])
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidShiftTime, s)
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return TimeOfDay{}, fmt.Errorf("%w: %q out of range", ErrInvalidShiftTime, s)
		}
		return TimeOfDay{Hour: hour, Minute: minute}, nil
	case 2:
		hour, minute, err := splitClock(parts[0])
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidShiftTime, s)
		}
		if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
			return TimeOfDay{}, fmt.Errorf("%w: %q out of range", ErrInvalidShiftTime, s)
		}
		switch strings.ToUpper(parts[1]) {
		case "AM":
			if hour == 12 {
				hour = 0
			}
		case "PM":
			if hour != 12 {
				hour += 12
			}
		default:
			return TimeOfDay{}, fmt.Errorf("%w: %q has invalid meridiem", ErrInvalidShiftTime, s)
		}
		return TimeOfDay{Hour: hour, Minute: minute}, nil
	default:
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidShiftTime, s)
	}
}

func splitClock(s string) (int, int, error) {
	hm := strings.Split(s, ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("expected H:MM, got %q", s)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return 0, 0, err
	}
	if len(hm[1]) != 2 {
		return 0, 0, fmt.Errorf("minutes must be two digits in %q", s)
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// ResolveShiftInstant combines a shift time-of-day with the calendar date of
// the reference instant. When the combined instant is at or before the
// reference (a cross-midnight shift, e.g. check-in 10 PM against a 6 AM
// checkout boundary), one calendar day is added. Re-applying the function to
// its own output is a no-op once the result is past the reference.
func ResolveShiftInstant(tod TimeOfDay, ref time.Time) time.Time {
	u := ref.UTC()
	instant := time.Date(u.Year(), u.Month(), u.Day(), tod.Hour, tod.Minute, 0, 0, time.UTC)
	if !instant.After(u) {
		instant = instant.AddDate(0, 0, 1)
	}
	return instant
}

// IsOverdue reports whether a checkout is overdue: the expected checkout
// instant (shift end resolved against the check-in) plus the grace period has
// passed relative to now.
func IsOverdue(checkIn time.Time, shiftEnd TimeOfDay, grace time.Duration, now time.Time) bool {
	expected := ResolveShiftInstant(shiftEnd, checkIn)
	return now.After(expected.Add(grace))
}

// EndOfDay returns 23:59:59 UTC of the calendar date containing t. Force-closed
// overtime sessions are pinned here so a legitimate overnight shift is never
// cut mid-shift.
func EndOfDay(t time.Time) time.Time {
	key := UTCDateKey(t)
	return time.Date(key.Year(), key.Month(), key.Day(), 23, 59, 59, 0, time.UTC)
}

// RoundHours converts a duration to decimal hours rounded to 2 places.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
