package attendance

import (
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
)

// Status is the attendance classification for one (employee, day).
type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusHalfDay   Status = "half_day"
	StatusAbsent    Status = "absent"
	StatusHoliday   Status = "holiday"
	StatusWeeklyOff Status = "weekly_off"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusHoliday, StatusWeeklyOff:
		return true
	}
	return false
}

// ReviewStatus is the admin review gate state. A record marked pending is
// excluded from every report and payroll aggregation until resolved.
type ReviewStatus string

const (
	ReviewNone     ReviewStatus = "none"
	ReviewPending  ReviewStatus = "pending"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewAdjusted ReviewStatus = "adjusted"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewNone, ReviewPending, ReviewAccepted, ReviewAdjusted, ReviewRejected:
		return true
	}
	return false
}

// TypeOnSite is the only attendance type new records are created with; the
// legacy per-record type selection is deprecated.
const TypeOnSite = "on_site"

// Record is one attendance record per (employee, UTC calendar day).
// Date never changes after creation.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time // UTC midnight, immutable
	Department string

	AttendanceType string
	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	WorkingHours   float64 // decimal hours, 2 places
	OvertimeHours  float64

	Status      Status
	IsLate      bool
	LateMinutes int

	CheckInLocation  *string
	CheckOutLocation *string
	CheckInPhotoURL  *string
	CheckOutPhotoURL *string
	CheckOutReason   *string

	AutoCorrected        bool
	AutoCorrectionReason *string
	OriginalCheckOutTime *time.Time

	AdminReviewStatus ReviewStatus
	AdminReviewedBy   *string
	AdminReviewedAt   *time.Time
	AdminReviewNotes  *string

	OTSessions []overtime.OTSession

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the record is checked in but not yet checked out.
func (r Record) IsOpen() bool {
	return r.CheckInTime != nil && r.CheckOutTime == nil
}
