package overtime

import (
	"time"
)

// OTType classifies why a session counts as overtime. Chosen once at session
// start by priority: holiday > weekend > early_arrival > late_departure.
type OTType string

const (
	OTTypeEarlyArrival  OTType = "early_arrival"
	OTTypeLateDeparture OTType = "late_departure"
	OTTypeWeekend       OTType = "weekend"
	OTTypeHoliday       OTType = "holiday"
)

func (t OTType) IsValid() bool {
	switch t {
	case OTTypeEarlyArrival, OTTypeLateDeparture, OTTypeWeekend, OTTypeHoliday:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of an overtime session.
type SessionStatus string

const (
	SessionInProgress    SessionStatus = "in_progress"
	SessionCompleted     SessionStatus = "completed"
	SessionPendingReview SessionStatus = "pending_review"
	SessionApproved      SessionStatus = "approved"
	SessionRejected      SessionStatus = "rejected"
	SessionLocked        SessionStatus = "locked"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionInProgress, SessionCompleted, SessionPendingReview,
		SessionApproved, SessionRejected, SessionLocked:
		return true
	}
	return false
}

// IsTerminal reports whether the session can no longer transition without an
// explicit review or unlock.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionApproved, SessionRejected, SessionLocked:
		return true
	}
	return false
}

// ReviewAction is what an admin did to a pending session.
type ReviewAction string

const (
	ReviewApproved ReviewAction = "approved"
	ReviewAdjusted ReviewAction = "adjusted"
	ReviewRejected ReviewAction = "rejected"
)

func (a ReviewAction) IsValid() bool {
	switch a {
	case ReviewApproved, ReviewAdjusted, ReviewRejected:
		return true
	}
	return false
}

// OTSession is one overtime work session. A day can hold several, numbered
// sequentially. OTHours stays zero while the session is pending review so
// unverified hours can never reach payroll.
type OTSession struct {
	ID                 string
	AttendanceRecordID string
	EmployeeID         string
	Date               time.Time // UTC midnight date key of the start day
	SessionNumber      int
	OTType             OTType
	StartTime          time.Time
	EndTime            *time.Time
	OTHours            float64
	Status             SessionStatus

	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewAction    *ReviewAction
	ReviewNotes     *string
	OriginalOTHours *float64
	AdjustedOTHours *float64

	AutoClosedAt   *time.Time
	AutoClosedNote *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayableHours returns the hours this session contributes to payroll.
// Pending and rejected sessions contribute nothing; an adjusted value wins
// over the submitted one.
func (s OTSession) PayableHours() float64 {
	switch s.Status {
	case SessionCompleted, SessionApproved, SessionLocked:
		if s.AdjustedOTHours != nil {
			return *s.AdjustedOTHours
		}
		return s.OTHours
	default:
		return 0
	}
}
