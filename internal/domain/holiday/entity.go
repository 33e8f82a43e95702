package holiday

import (
	"time"
)

// Holiday is a company holiday. An empty Departments slice applies
// company-wide; otherwise the holiday only covers the listed departments.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time // UTC midnight date key
	AllowOT     bool
	Departments []string
}

// AppliesTo reports whether the holiday covers the department.
func (h Holiday) AppliesTo(dept string) bool {
	if len(h.Departments) == 0 {
		return true
	}
	for _, d := range h.Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// Check is the result of a holiday lookup.
type Check struct {
	IsHoliday bool
	Holiday   *Holiday
}
