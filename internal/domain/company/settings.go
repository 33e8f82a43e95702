package company

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Settings is read-only company configuration consumed by the engine.
type Settings struct {
	// DefaultWeekendDays applies when a department has no weekend set of
	// its own.
	DefaultWeekendDays []time.Weekday

	// DailyOTCapHours is the soft daily overtime cap; sessions pushing the
	// day's total past it are parked pending review.
	DailyOTCapHours float64

	// DefaultOTRate is the hourly overtime multiplier used by payroll.
	DefaultOTRate decimal.Decimal

	// StandardWorkingDays is the fixed divisor for daily-rate derivation
	// (e.g. 26), never the calendar month length.
	StandardWorkingDays int
}

// SettingsService is the engine's view of external company configuration.
type SettingsService interface {
	Get(ctx context.Context) (Settings, error)
}
