package overtime

import (
	"context"
	"time"
)

// SessionRepository defines data access for overtime sessions.
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session OTSession) (OTSession, error)

	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id string) (OTSession, error)

	// GetInProgress returns the employee's single open session, if any.
	// Returns ErrSessionNotFound when none is open.
	GetInProgress(ctx context.Context, employeeID string) (OTSession, error)

	// ListByEmployeeAndDate returns all sessions of one employee on one date key
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]OTSession, error)

	// ListStaleInProgress returns in_progress sessions that started within the
	// lookback window, capped at limit rows
	ListStaleInProgress(ctx context.Context, since time.Time, limit int) ([]OTSession, error)

	// ListPendingReview returns sessions awaiting admin review
	ListPendingReview(ctx context.Context, limit, offset int) ([]OTSession, int64, error)

	// UpdateFrom persists changes to an existing session, but only while its
	// stored status still equals expected. Returns ErrSessionStateChanged
	// when a concurrent writer moved the session first.
	UpdateFrom(ctx context.Context, session OTSession, expected SessionStatus) error
}
