package response

import (
	"errors"
	"net/http"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/domain/payroll"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll period gate
	case errors.Is(err, payrollperiod.ErrPeriodLocked):
		Locked(w, err.Error())
	case errors.Is(err, payrollperiod.ErrPeriodAlreadyLocked):
		Conflict(w, "Payroll period is already locked")
	case errors.Is(err, payrollperiod.ErrPeriodNotLocked):
		Conflict(w, "Payroll period is not locked")
	case errors.Is(err, payrollperiod.ErrUnlockReasonTooShort):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrHolidayToday):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrOnLeaveToday):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmployeeInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrNoDepartment):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordNotPending):
		Conflict(w, err.Error())

	// Overtime domain errors
	case errors.Is(err, overtime.ErrSessionAlreadyOpen):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrOnApprovedLeave):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, overtime.ErrOTNotAllowedToday):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, overtime.ErrSessionNotFound):
		NotFound(w, "Overtime session not found")
	case errors.Is(err, overtime.ErrNotSessionOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, overtime.ErrSessionNotInProgress):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrSessionNotReviewable):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrSessionStateChanged):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrSessionLocked):
		Locked(w, err.Error())
	case errors.Is(err, overtime.ErrAdjustedHoursRequired):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPendingReviewExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrForceNotPermitted):
		Forbidden(w, err.Error())

	// Department / employee
	case errors.Is(err, department.ErrTimingNotFound):
		NotFound(w, "Department timing not found")
	case errors.Is(err, department.ErrInvalidTiming):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
