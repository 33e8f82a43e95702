package overtime

import (
	"context"
	"time"
)

// SessionService defines business logic for overtime sessions
type SessionService interface {
	// Start opens a new session for the employee, classifying its OT type
	Start(ctx context.Context, req StartSessionRequest, now time.Time) (SessionResponse, error)

	// End closes the caller's own session, applying the daily-cap gate.
	// A session belonging to another employee is refused.
	End(ctx context.Context, req EndSessionRequest, now time.Time) (SessionResponse, error)

	// Review applies an admin decision to a pending session
	Review(ctx context.Context, req ReviewSessionRequest, reviewerID string, now time.Time) (SessionResponse, error)

	// Status returns the employee's open session plus today's totals
	Status(ctx context.Context, employeeID string, now time.Time) (ListSessionsResponse, error)

	// ListPending returns sessions awaiting review (admin surface)
	ListPending(ctx context.Context, limit, offset int) (ListSessionsResponse, error)

	// AutoCloseSweep force-closes sessions older than the stale threshold.
	// Scheduled; never aborts on a single bad record.
	AutoCloseSweep(ctx context.Context, now time.Time) (SweepSummary, error)
}
