package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for attendance records. Exactly one
// record may exist per (employee_id, date); the unique key is the final
// arbiter against concurrent duplicate check-ins.
type RecordRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record by ID, sessions included
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate retrieves the record for one employee on one UTC
	// date key. Returns nil when absent.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// Update persists changes to an existing record. Date is never updated.
	Update(ctx context.Context, record Record) error

	// UpdateReviewed persists an admin review outcome. The write applies only
	// while the record is still pending; ErrRecordNotPending is returned when
	// another reviewer resolved it first.
	UpdateReviewed(ctx context.Context, record Record) error

	// List retrieves records with filters and pagination. Unless
	// filter.IncludePending is set, records pending admin review are excluded.
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// ListRange returns all non-pending records for one employee in a date
	// range, sessions included. Used by payroll aggregation.
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// ListOpenOverdue returns open records (checked in, no checkout) with a
	// check-in older than since, capped at limit rows
	ListOpenOverdue(ctx context.Context, since time.Time, limit int) ([]Record, error)

	// ListPendingInPeriod returns records pending admin review within a date
	// range, for the payroll blocking rule
	ListPendingInPeriod(ctx context.Context, from, to time.Time) ([]Record, error)
}
