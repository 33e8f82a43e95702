package department

import (
	"time"
)

// Timing is the shift configuration for one department. Check-in/out times
// are canonical 12-hour strings ("9:00 AM"); they are parsed strictly at
// load time so a malformed row fails the read instead of defaulting.
type Timing struct {
	Department               string
	CheckInTime              string
	CheckOutTime             string
	WorkingHours             int
	OvertimeThresholdMinutes int
	LateThresholdMinutes     int
	AutoCheckoutGraceMinutes int
	WeeklyOffDays            []time.Weekday

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWeeklyOff reports whether the weekday is in the department's weekend set.
func (t Timing) IsWeeklyOff(day time.Weekday) bool {
	for _, d := range t.WeeklyOffDays {
		if d == day {
			return true
		}
	}
	return false
}
