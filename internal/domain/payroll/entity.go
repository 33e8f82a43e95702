package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeSummary is one employee's payable result for a period.
type EmployeeSummary struct {
	EmployeeID   string
	EmployeeName string
	Department   string

	Year  int
	Month time.Month

	WeightedPayableDays float64
	TotalOTHours        float64

	DailyRate    decimal.Decimal
	EarnedAmount decimal.Decimal
	OTAmount     decimal.Decimal
	TotalAmount  decimal.Decimal
}

// ExcludedDay records a day left out of a forced generation, for audit.
type ExcludedDay struct {
	EmployeeID string    `json:"employee_id"`
	RecordID   string    `json:"record_id"`
	Date       time.Time `json:"date"`
	Reason     string    `json:"reason"`
}

// GenerationResult is the output of one payroll run.
type GenerationResult struct {
	Year      int               `json:"year"`
	Month     time.Month        `json:"month"`
	Forced    bool              `json:"forced"`
	Summaries []EmployeeSummary `json:"summaries"`

	// ExcludedDays is non-empty only for forced runs where pending-review
	// records were skipped.
	ExcludedDays []ExcludedDay `json:"excluded_days,omitempty"`
}
