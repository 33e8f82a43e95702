package attendance

import (
	"context"
	"time"
)

// RecordService defines business logic for attendance operations
type RecordService interface {
	// CheckIn processes an employee check-in with full validation
	CheckIn(ctx context.Context, req CheckInRequest, now time.Time) (RecordResponse, error)

	// CheckOut processes an employee check-out, including the overtime
	// threshold gate and half-day auto-tagging
	CheckOut(ctx context.Context, req CheckOutRequest, now time.Time) (RecordResponse, error)

	// Get retrieves a single record by ID
	Get(ctx context.Context, id string) (RecordResponse, error)

	// List retrieves records with filters; pending-review records are
	// excluded unless the filter explicitly includes them
	List(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// AutoCheckoutSweep closes overdue open records, flagging each for admin
	// review. Scheduled; never aborts on a single bad record.
	AutoCheckoutSweep(ctx context.Context, now time.Time) (SweepSummary, error)
}

// ReviewService applies admin decisions to records flagged by the
// auto-checkout sweep.
type ReviewService interface {
	// Apply resolves a pending record: accept the corrected times, adjust
	// them to new values, or reject the day outright
	Apply(ctx context.Context, req ReviewRequest, reviewerID string, now time.Time) (RecordResponse, error)

	// ListPending returns records awaiting admin review
	ListPending(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)
}
