package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/handler/http/middleware"
	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	recordService attendance.RecordService
	reviewService attendance.ReviewService
}

func NewAttendanceHandler(recordService attendance.RecordService, reviewService attendance.ReviewService) AttendanceHandler {
	return &attendanceHandlerImpl{
		recordService: recordService,
		reviewService: reviewService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
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

	record, err := h.recordService.CheckIn(r.Context(), req, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", record)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
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

	record, err := h.recordService.CheckOut(r.Context(), req, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", record)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.recordService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.recordService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// ListPending implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reviewService.ListPending(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// Review implements AttendanceHandler.
func (h *attendanceHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RecordID = chi.URLParam(r, "id")

	reviewerID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	record, err := h.reviewService.Apply(r.Context(), req, reviewerID, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review applied", record)
}

func parseRecordFilter(r *http.Request) (attendance.RecordFilter, error) {
	q := r.URL.Query()
	filter := attendance.RecordFilter{}

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("department"); v != "" {
		filter.Department = &v
	}
	if v := q.Get("date_from"); v != "" {
		from, ok := validator.IsValidDate(v)
		if !ok {
			return attendance.RecordFilter{}, errors.New("date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, ok := validator.IsValidDate(v)
		if !ok {
			return attendance.RecordFilter{}, errors.New("date_to must be YYYY-MM-DD")
		}
		filter.DateTo = &to
	}
	if v := q.Get("status"); v != "" {
		status := attendance.Status(v)
		filter.Status = &status
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return attendance.RecordFilter{}, err
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return attendance.RecordFilter{}, err
		}
		filter.Limit = limit
	}

	return filter, nil
}

func totalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
