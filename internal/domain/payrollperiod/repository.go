package payrollperiod

import (
	"context"
	"time"
)

// LockRepository defines data access for payroll period locks.
type LockRepository interface {
	// Get retrieves the lock row for (year, month). Returns nil when the
	// period has never been locked (treated as open).
	Get(ctx context.Context, year int, month time.Month) (*Lock, error)

	// Upsert creates or replaces the lock row for its (year, month)
	Upsert(ctx context.Context, lock Lock) (Lock, error)
}
