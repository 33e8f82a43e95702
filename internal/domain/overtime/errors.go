package overtime

import "errors"

// Overtime domain errors
var (
	// Session start errors
	ErrSessionAlreadyOpen = errors.New("you already have an overtime session in progress")
	ErrOnApprovedLeave    = errors.New("overtime cannot start on a day with approved leave")
	ErrOTNotAllowedToday  = errors.New("overtime is not allowed on this holiday")

	// Session end / review errors
	ErrSessionNotFound       = errors.New("overtime session not found")
	ErrNotSessionOwner       = errors.New("overtime session belongs to another employee")
	ErrSessionNotInProgress  = errors.New("overtime session is not in progress")
	ErrSessionNotReviewable  = errors.New("overtime session is not pending review")
	ErrSessionStateChanged   = errors.New("overtime session was changed by another request")
	ErrSessionLocked         = errors.New("overtime session is locked for a finalized payroll period")
	ErrAdjustedHoursRequired = errors.New("adjusted hours are required for an adjust action")
)
