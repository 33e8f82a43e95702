package payroll

import (
	"context"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
)

// Service aggregates finalized attendance into payable-day counts and
// amounts. It only ever reads records that have cleared the review gate.
type Service interface {
	// EnrichWithStatutoryDays injects virtual holiday / weekly-off records
	// for uncovered days in the range. At most one injection per day;
	// plain absences stand.
	EnrichWithStatutoryDays(ctx context.Context, employeeID string, from, to time.Time, records []attendance.Record) ([]attendance.Record, error)

	// Generate produces the period's per-employee summaries. Refuses with a
	// *PendingReviewError when pending-review records exist in the period,
	// unless force is set by a master-level actor; forced runs record the
	// excluded days for audit.
	Generate(ctx context.Context, year int, month time.Month, force bool, actorID string) (GenerationResult, error)

	// Report returns an attendance report for the range with statutory-day
	// enrichment applied. Pending records never appear.
	Report(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.RecordResponse, error)
}
