// Package leave exposes the engine's view of the external leave service.
// Approved leave is always authoritative over attendance: check-in, overtime
// start, and both background sweeps consult it before acting.
package leave

import (
	"context"
	"time"
)

type Service interface {
	// HasApprovedLeave reports whether the employee has approved leave
	// covering the given UTC date key
	HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
