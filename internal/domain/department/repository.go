package department

import (
	"context"
)

// TimingRepository defines data access for department shift configuration.
type TimingRepository interface {
	// GetByDepartment retrieves the timing row for one department.
	// Returns ErrTimingNotFound when unconfigured.
	GetByDepartment(ctx context.Context, dept string) (Timing, error)

	// Upsert creates or replaces a department's timing
	Upsert(ctx context.Context, timing Timing) (Timing, error)
}
