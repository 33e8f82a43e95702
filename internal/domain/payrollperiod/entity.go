package payrollperiod

import (
	"time"
)

// LockStatus is the state of a payroll period.
type LockStatus string

const (
	StatusOpen   LockStatus = "open"
	StatusLocked LockStatus = "locked"
)

func (s LockStatus) IsValid() bool {
	return s == StatusOpen || s == StatusLocked
}

// Lock is the per-(year, month) payroll lock. Once locked, no attendance or
// overtime mutation in that month may proceed until an audited unlock.
type Lock struct {
	Year   int
	Month  time.Month
	Status LockStatus

	LockedBy *string
	LockedAt *time.Time

	UnlockedBy   *string
	UnlockedAt   *time.Time
	UnlockReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
