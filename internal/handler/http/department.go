package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	GetTiming(w http.ResponseWriter, r *http.Request)
	UpdateTiming(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	timingStore department.TimingStore
}

func NewDepartmentHandler(timingStore department.TimingStore) DepartmentHandler {
	return &departmentHandlerImpl{timingStore: timingStore}
}

// GetTiming implements DepartmentHandler.
func (h *departmentHandlerImpl) GetTiming(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "name")

	timing, err := h.timingStore.Get(r.Context(), dept)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, timing.Timing)
}

type updateTimingRequest struct {
	CheckInTime              string `json:"check_in_time"`
	CheckOutTime             string `json:"check_out_time"`
	WorkingHours             int    `json:"working_hours"`
	OvertimeThresholdMinutes int    `json:"overtime_threshold_minutes"`
	LateThresholdMinutes     int    `json:"late_threshold_minutes"`
	AutoCheckoutGraceMinutes int    `json:"auto_checkout_grace_minutes"`
	WeeklyOffDays            []int  `json:"weekly_off_days"`
}

// UpdateTiming implements DepartmentHandler.
func (h *departmentHandlerImpl) UpdateTiming(w http.ResponseWriter, r *http.Request) {
	var req updateTimingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	timing := department.Timing{
		Department:               chi.URLParam(r, "name"),
		CheckInTime:              req.CheckInTime,
		CheckOutTime:             req.CheckOutTime,
		WorkingHours:             req.WorkingHours,
		OvertimeThresholdMinutes: req.OvertimeThresholdMinutes,
		LateThresholdMinutes:     req.LateThresholdMinutes,
		AutoCheckoutGraceMinutes: req.AutoCheckoutGraceMinutes,
	}
	for _, day := range req.WeeklyOffDays {
		timing.WeeklyOffDays = append(timing.WeeklyOffDays, time.Weekday(day))
	}

	saved, err := h.timingStore.Update(r.Context(), timing)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department timing updated", saved.Timing)
}
