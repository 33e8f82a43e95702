package attendance

import (
	"time"

	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Location   *string `json:"location,omitempty"`
	PhotoRef   string  `json:"photo_ref"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.PhotoRef) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo_ref",
			Message: "check-in proof photo is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Location   *string `json:"location,omitempty"`
	PhotoRef   string  `json:"photo_ref"`
	Reason     string  `json:"reason"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	RecordID     string  `json:"record_id"`
	Action       string  `json:"action"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // RFC 3339, required for adjusted
	CheckOutTime *string `json:"check_out_time,omitempty"` // RFC 3339, required for adjusted
	Notes        string  `json:"notes"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	switch ReviewStatus(r.Action) {
	case ReviewAccepted, ReviewRejected:
	case ReviewAdjusted:
		if r.CheckInTime == nil || r.CheckOutTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time and check_out_time are required when action is adjusted",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: accepted, adjusted, rejected",
		})
	}

	if ReviewStatus(r.Action) == ReviewRejected && validator.IsEmpty(r.Notes) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes are required when rejecting a record",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         *string `json:"employee_name,omitempty"`
	Date                 string  `json:"date"`
	CheckInTime          *string `json:"check_in_time,omitempty"`
	CheckOutTime         *string `json:"check_out_time,omitempty"`
	WorkingHours         float64 `json:"working_hours"`
	OvertimeHours        float64 `json:"overtime_hours"`
	Status               string  `json:"status"`
	IsLate               bool    `json:"is_late"`
	LateMinutes          int     `json:"late_minutes"`
	AutoCorrected        bool    `json:"auto_corrected"`
	AutoCorrectionReason *string `json:"auto_correction_reason,omitempty"`
	OriginalCheckOutTime *string `json:"original_check_out_time,omitempty"`
	AdminReviewStatus    string  `json:"admin_review_status"`
	AdminReviewNotes     *string `json:"admin_review_notes,omitempty"`
	OTSessionCount       int     `json:"ot_session_count"`
	TotalOTHours         float64 `json:"total_ot_hours"`
}

type RecordFilter struct {
	EmployeeID *string
	Department *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     *Status

	// IncludePending widens queries to pending-review records. Only the
	// admin pending list sets this; every report path leaves it false.
	IncludePending bool

	// OnlyPending narrows the query to pending-review records. Implies
	// IncludePending.
	OnlyPending bool

	Page  int
	Limit int
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}

// SweepSummary is the observable output of the auto-checkout sweep.
type SweepSummary struct {
	Processed int `json:"processed"`
	Corrected int `json:"corrected"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
