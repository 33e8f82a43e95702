package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/handler/http/middleware"
	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	sessionService overtime.SessionService
}

func NewOvertimeHandler(sessionService overtime.SessionService) OvertimeHandler {
	return &overtimeHandlerImpl{sessionService: sessionService}
}

// Start implements OvertimeHandler.
func (h *overtimeHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	session, err := h.sessionService.Start(r.Context(), overtime.StartSessionRequest{
		EmployeeID: employeeID,
	}, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime session started", session)
}

// End implements OvertimeHandler.
func (h *overtimeHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	var req overtime.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}
	req.EmployeeID = employeeID

	session, err := h.sessionService.End(r.Context(), req, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime session ended", session)
}

// Status implements OvertimeHandler.
func (h *overtimeHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	status, err := h.sessionService.Status(r.Context(), employeeID, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListPending implements OvertimeHandler.
func (h *overtimeHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.sessionService.ListPending(r.Context(), limit, offset)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Review implements OvertimeHandler.
func (h *overtimeHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req overtime.ReviewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SessionID = chi.URLParam(r, "id")

	reviewerID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	session, err := h.sessionService.Review(r.Context(), req, reviewerID, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review applied", session)
}
