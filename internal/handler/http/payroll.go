package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/payroll"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/handler/http/middleware"
	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetPeriod(w http.ResponseWriter, r *http.Request)
	LockPeriod(w http.ResponseWriter, r *http.Request)
	UnlockPeriod(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
	lockService    payrollperiod.LockService
}

func NewPayrollHandler(payrollService payroll.Service, lockService payrollperiod.LockService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		lockService:    lockService,
	}
}

func periodFromRequest(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, err
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, err
	}
	if monthNum < 1 || monthNum > 12 {
		return 0, 0, strconv.ErrRange
	}
	return year, time.Month(monthNum), nil
}

// GetPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid period", nil)
		return
	}

	lock, err := h.lockService.Get(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lock)
}

// LockPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) LockPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid period", nil)
		return
	}

	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	lock, err := h.lockService.Lock(r.Context(), year, month, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period locked", lock)
}

type unlockRequest struct {
	Reason string `json:"reason"`
}

// UnlockPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) UnlockPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid period", nil)
		return
	}

	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	lock, err := h.lockService.Unlock(r.Context(), year, month, actorID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period unlocked", lock)
}

type generateRequest struct {
	Year  int  `json:"year"`
	Month int  `json:"month"`
	Force bool `json:"force"`
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		response.BadRequest(w, "Invalid period", nil)
		return
	}

	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req.Year, time.Month(req.Month), req.Force, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generated", result)
}

// Report implements PayrollHandler.
func (h *payrollHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID := q.Get("employee_id")
	if employeeID == "" {
		if id, ok := middleware.EmployeeID(r); ok {
			employeeID = id
		}
	}
	from, err := time.Parse("2006-01-02", q.Get("date_from"))
	if err != nil {
		response.BadRequest(w, "Invalid date_from", nil)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("date_to"))
	if err != nil {
		response.BadRequest(w, "Invalid date_to", nil)
		return
	}

	report, err := h.payrollService.Report(r.Context(), employeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
