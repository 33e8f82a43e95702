package payrollperiod

import (
	"context"
	"time"
)

// LockService is the single gate every attendance and overtime mutation must
// pass before touching a record.
type LockService interface {
	// AssertUnlocked fails with ErrPeriodLocked when the (year, month) of
	// date is locked. There are no exceptions; master-level actors unlock
	// explicitly first.
	AssertUnlocked(ctx context.Context, date time.Time) error

	// Lock finalizes the period
	Lock(ctx context.Context, year int, month time.Month, actorID string) (Lock, error)

	// Unlock reopens a finalized period. Requires a written reason of
	// MinUnlockReasonLength, recorded for audit.
	Unlock(ctx context.Context, year int, month time.Month, actorID, reason string) (Lock, error)

	// Get returns the current lock state for the period
	Get(ctx context.Context, year int, month time.Month) (Lock, error)
}
