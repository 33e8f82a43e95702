package payrollperiod

import "errors"

// Payroll period domain errors
var (
	ErrPeriodLocked         = errors.New("payroll period is locked, no attendance mutations are permitted")
	ErrPeriodAlreadyLocked  = errors.New("payroll period is already locked")
	ErrPeriodNotLocked      = errors.New("payroll period is not locked")
	ErrUnlockReasonTooShort = errors.New("unlock reason must be at least 10 characters for the audit log")
)

// MinUnlockReasonLength is the minimum written justification for unlocking a
// finalized period.
const MinUnlockReasonLength = 10
