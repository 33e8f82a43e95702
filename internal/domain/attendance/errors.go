package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrHolidayToday     = errors.New("today is a company holiday, check-in is not required")
	ErrOnLeaveToday     = errors.New("you have approved leave today, check-in is not required")
	ErrEmployeeInactive = errors.New("employee is not active")
	ErrNoDepartment     = errors.New("employee has no assigned department")

	// Check-out errors
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrRecordNotPending = errors.New("attendance record is not pending review")
)
