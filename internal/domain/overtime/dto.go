package overtime

import (
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// ========================================
// OVERTIME DTOs
// ========================================

type StartSessionRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *StartSessionRequest) Validate() error {
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

type EndSessionRequest struct {
	// EmployeeID comes from the authenticated identity, never the body.
	EmployeeID string `json:"-"`
	SessionID  string `json:"session_id"`
}

func (r *EndSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	} else if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewSessionRequest struct {
	SessionID     string   `json:"session_id"`
	Action        string   `json:"action"`
	AdjustedHours *float64 `json:"adjusted_hours,omitempty"`
	Notes         string   `json:"notes"`
}

func (r *ReviewSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	} else if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a UUID",
		})
	}

	if !ReviewAction(r.Action).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: approved, adjusted, rejected",
		})
	}

	if ReviewAction(r.Action) == ReviewAdjusted {
		if r.AdjustedHours == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "adjusted_hours",
				Message: "adjusted_hours is required when action is adjusted",
			})
		} else if *r.AdjustedHours < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "adjusted_hours",
				Message: "adjusted_hours must not be negative",
			})
		}
	}

	if ReviewAction(r.Action) == ReviewRejected && validator.IsEmpty(r.Notes) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes are required when rejecting a session",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	Date            string   `json:"date"`
	SessionNumber   int      `json:"session_number"`
	OTType          string   `json:"ot_type"`
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time,omitempty"`
	OTHours         float64  `json:"ot_hours"`
	Status          string   `json:"status"`
	ReviewedBy      *string  `json:"reviewed_by,omitempty"`
	ReviewNotes     *string  `json:"review_notes,omitempty"`
	OriginalOTHours *float64 `json:"original_ot_hours,omitempty"`
	AdjustedOTHours *float64 `json:"adjusted_ot_hours,omitempty"`
	AutoClosedNote  *string  `json:"auto_closed_note,omitempty"`
}

type ListSessionsResponse struct {
	TotalCount int64             `json:"total_count"`
	Sessions   []SessionResponse `json:"sessions"`
}

// SweepSummary is the observable output of the auto-close sweep.
type SweepSummary struct {
	Processed int `json:"processed"`
	Closed    int `json:"closed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
