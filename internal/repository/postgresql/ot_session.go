package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const otSessionColumns = `
	s.id, s.attendance_record_id, s.employee_id, s.date, s.session_number,
	s.ot_type, s.start_time, s.end_time, s.ot_hours, s.status,
	s.reviewed_by, s.reviewed_at, s.review_action, s.review_notes,
	s.original_ot_hours, s.adjusted_ot_hours,
	s.auto_closed_at, s.auto_closed_note,
	s.created_at, s.updated_at`

type otSessionRepository struct {
	db *database.DB
}

func NewOTSessionRepository(db *database.DB) overtime.SessionRepository {
	return &otSessionRepository{db: db}
}

func scanSession(row pgx.Row) (overtime.OTSession, error) {
	var session overtime.OTSession
	err := row.Scan(
		&session.ID, &session.AttendanceRecordID, &session.EmployeeID, &session.Date, &session.SessionNumber,
		&session.OTType, &session.StartTime, &session.EndTime, &session.OTHours, &session.Status,
		&session.ReviewedBy, &session.ReviewedAt, &session.ReviewAction, &session.ReviewNotes,
		&session.OriginalOTHours, &session.AdjustedOTHours,
		&session.AutoClosedAt, &session.AutoClosedNote,
		&session.CreatedAt, &session.UpdatedAt,
	)
	return session, err
}

// Create implements overtime.SessionRepository.
func (o *otSessionRepository) Create(ctx context.Context, session overtime.OTSession) (overtime.OTSession, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		INSERT INTO ot_sessions (
			id, attendance_record_id, employee_id, date, session_number,
			ot_type, start_time, ot_hours, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.AttendanceRecordID,
		session.EmployeeID,
		session.Date,
		session.SessionNumber,
		session.OTType,
		session.StartTime,
		session.OTHours,
		session.Status,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return overtime.OTSession{}, fmt.Errorf("failed to create overtime session: %w", err)
	}

	return session, nil
}

// GetByID implements overtime.SessionRepository.
func (o *otSessionRepository) GetByID(ctx context.Context, id string) (overtime.OTSession, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + otSessionColumns + ` FROM ot_sessions s WHERE s.id = $1`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OTSession{}, overtime.ErrSessionNotFound
		}
		return overtime.OTSession{}, fmt.Errorf("failed to get overtime session: %w", err)
	}

	return session, nil
}

// GetInProgress implements overtime.SessionRepository.
func (o *otSessionRepository) GetInProgress(ctx context.Context, employeeID string) (overtime.OTSession, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT ` + otSessionColumns + `
		FROM ot_sessions s
		WHERE s.employee_id = $1
		  AND s.status = 'in_progress'
		ORDER BY s.start_time DESC
		LIMIT 1
	`

	session, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OTSession{}, overtime.ErrSessionNotFound
		}
		return overtime.OTSession{}, fmt.Errorf("failed to get open overtime session: %w", err)
	}

	return session, nil
}

// ListByEmployeeAndDate implements overtime.SessionRepository.
func (o *otSessionRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]overtime.OTSession, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT ` + otSessionColumns + `
		FROM ot_sessions s
		WHERE s.employee_id = $1
		  AND s.date = $2
		ORDER BY s.session_number
	`

	return o.querySessions(ctx, q, query, employeeID, date)
}

// ListStaleInProgress implements overtime.SessionRepository.
func (o *otSessionRepository) ListStaleInProgress(ctx context.Context, since time.Time, limit int) ([]overtime.OTSession, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT ` + otSessionColumns + `
		FROM ot_sessions s
		WHERE s.status = 'in_progress'
		  AND s.date >= $1
		ORDER BY s.start_time
		LIMIT $2
	`

	return o.querySessions(ctx, q, query, since, limit)
}

// ListPendingReview implements overtime.SessionRepository.
func (o *otSessionRepository) ListPendingReview(ctx context.Context, limit, offset int) ([]overtime.OTSession, int64, error) {
	q := GetQuerier(ctx, o.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM ot_sessions WHERE status = 'pending_review'`
	if err := q.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending sessions: %w", err)
	}

	query := `
		SELECT ` + otSessionColumns + `
		FROM ot_sessions s
		WHERE s.status = 'pending_review'
		ORDER BY s.date, s.start_time
		LIMIT $1 OFFSET $2
	`

	sessions, err := o.querySessions(ctx, q, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// UpdateFrom implements overtime.SessionRepository. The status guard in the
// WHERE clause makes every state transition first-wins under concurrent
// writers.
func (o *otSessionRepository) UpdateFrom(ctx context.Context, session overtime.OTSession, expected overtime.SessionStatus) error {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE ot_sessions SET
			end_time = $2,
			ot_hours = $3,
			status = $4,
			reviewed_by = $5,
			reviewed_at = $6,
			review_action = $7,
			review_notes = $8,
			original_ot_hours = $9,
			adjusted_ot_hours = $10,
			auto_closed_at = $11,
			auto_closed_note = $12,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $13
	`

	tag, err := q.Exec(ctx, query,
		session.ID,
		session.EndTime,
		session.OTHours,
		session.Status,
		session.ReviewedBy,
		session.ReviewedAt,
		session.ReviewAction,
		session.ReviewNotes,
		session.OriginalOTHours,
		session.AdjustedOTHours,
		session.AutoClosedAt,
		session.AutoClosedNote,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrSessionStateChanged
	}
	return nil
}

func (o *otSessionRepository) querySessions(ctx context.Context, q database.Querier, query string, args ...any) ([]overtime.OTSession, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime sessions: %w", err)
	}
	defer rows.Close()

	var sessions []overtime.OTSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime sessions: %w", err)
	}
	return sessions, nil
}
