package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/leave"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

// NewLeaveRepository returns a leave.Service backed by the synced
// approved-leave table. Only approved rows are ever written to it, so
// existence of a covering row is the whole check.
func NewLeaveRepository(db *database.DB) leave.Service {
	return &leaveRepository{db: db}
}

// HasApprovedLeave implements leave.Service.
func (l *leaveRepository) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM approved_leaves
			WHERE employee_id = $1
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}
