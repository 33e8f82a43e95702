package fixtures

import (
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/department"
)

// DefaultTiming is the fallback shift configuration applied to any
// department without a configured row. The engine must never operate with an
// undefined shift boundary, so this default is always resolvable.
func DefaultTiming(dept string) department.Timing {
	return department.Timing{
		Department:               dept,
		CheckInTime:              "9:00 AM",
		CheckOutTime:             "6:00 PM",
		WorkingHours:             8,
		OvertimeThresholdMinutes: 30,
		LateThresholdMinutes:     15,
		AutoCheckoutGraceMinutes: 120,
		WeeklyOffDays:            []time.Weekday{time.Saturday, time.Sunday},
	}
}
