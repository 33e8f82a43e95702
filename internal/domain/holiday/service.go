package holiday

import (
	"context"
	"time"
)

// Service is the engine's view of the external holiday calendar.
type Service interface {
	// IsHoliday checks whether the UTC date key is a holiday for the department
	IsHoliday(ctx context.Context, date time.Time, dept string) (Check, error)

	// ListRange returns all holidays in [from, to] applying to the department
	ListRange(ctx context.Context, from, to time.Time, dept string) ([]Holiday, error)
}
