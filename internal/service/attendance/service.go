package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/domain/leave"
	"github.com/attendly/timepay-engine-go/internal/domain/notification"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// earlyMorningCutoffHour bounds the overnight-shift checkout window: a
// checkout before this hour with no record today also looks at yesterday's
// date key.
const earlyMorningCutoffHour = 6

// minEarlyCheckoutReasonLength is the expected reason length for leaving
// before standard hours; a shorter reason is logged, not blocked.
const minEarlyCheckoutReasonLength = 10

type RecordServiceImpl struct {
	recordRepo attendance.RecordRepository
	directory  employee.Directory
	timings    department.TimingStore
	holidays   holiday.Service
	leaves     leave.Service
	locks      payrollperiod.LockService
	notifier   notification.Service

	lookbackDays    int
	sweepBatchLimit int
}

func NewRecordService(
	recordRepo attendance.RecordRepository,
	directory employee.Directory,
	timings department.TimingStore,
	holidays holiday.Service,
	leaves leave.Service,
	locks payrollperiod.LockService,
	notifier notification.Service,
	lookbackDays int,
	sweepBatchLimit int,
) attendance.RecordService {
	return &RecordServiceImpl{
		recordRepo:      recordRepo,
		directory:       directory,
		timings:         timings,
		holidays:        holidays,
		leaves:          leaves,
		locks:           locks,
		notifier:        notifier,
		lookbackDays:    lookbackDays,
		sweepBatchLimit: sweepBatchLimit,
	}
}

// CheckIn implements attendance.RecordService.
func (s *RecordServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest, now time.Time) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	nowUTC := now.UTC()
	dateKey := timeutil.UTCDateKey(nowUTC)

	emp, err := s.directory.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}
	if !emp.Active {
		return attendance.RecordResponse{}, attendance.ErrEmployeeInactive
	}
	if emp.Department == "" {
		return attendance.RecordResponse{}, attendance.ErrNoDepartment
	}

	timing, err := s.timings.Get(ctx, emp.Department)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if err := s.locks.AssertUnlocked(ctx, dateKey); err != nil {
		return attendance.RecordResponse{}, err
	}

	check, err := s.holidays.IsHoliday(ctx, dateKey, emp.Department)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check holiday calendar: %w", err)
	}
	if check.IsHoliday {
		return attendance.RecordResponse{}, fmt.Errorf("%w (%s)", attendance.ErrHolidayToday, check.Holiday.Name)
	}

	onLeave, err := s.leaves.HasApprovedLeave(ctx, emp.ID, dateKey)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check leave: %w", err)
	}
	if onLeave {
		return attendance.RecordResponse{}, attendance.ErrOnLeaveToday
	}

	existing, err := s.recordRepo.GetByEmployeeAndDate(ctx, emp.ID, dateKey)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
	}

	// Lateness is measured from the scheduled start on today's date, not
	// from the grace limit.
	scheduledIn := time.Date(dateKey.Year(), dateKey.Month(), dateKey.Day(),
		timing.CheckIn.Hour, timing.CheckIn.Minute, 0, 0, time.UTC)
	graceLimit := scheduledIn.Add(time.Duration(timing.LateThresholdMinutes) * time.Minute)

	status := attendance.StatusPresent
	isLate := false
	lateMinutes := 0
	if nowUTC.After(graceLimit) {
		status = attendance.StatusLate
		isLate = true
		if diff := nowUTC.Sub(scheduledIn).Minutes(); diff > 0 {
			lateMinutes = int(math.Floor(diff))
		}
	}

	record := attendance.Record{
		EmployeeID:        emp.ID,
		Date:              dateKey,
		Department:        emp.Department,
		AttendanceType:    attendance.TypeOnSite,
		CheckInTime:       &nowUTC,
		Status:            status,
		IsLate:            isLate,
		LateMinutes:       lateMinutes,
		CheckInLocation:   req.Location,
		CheckInPhotoURL:   &req.PhotoRef,
		AdminReviewStatus: attendance.ReviewNone,
	}

	created, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapRecordToResponse(created), nil
}

// CheckOut implements attendance.RecordService.
func (s *RecordServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest, now time.Time) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	nowUTC := now.UTC()

	record, err := s.findOpenRecord(ctx, req.EmployeeID, nowUTC)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if err := s.locks.AssertUnlocked(ctx, record.Date); err != nil {
		return attendance.RecordResponse{}, err
	}

	timing, err := s.timings.Get(ctx, record.Department)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	workingHours := timeutil.RoundHours(nowUTC.Sub(*record.CheckInTime))
	standardHours := float64(timing.WorkingHours)

	overtimeHours := 0.0
	if workingHours > standardHours {
		overtimeHours = math.Round((workingHours-standardHours)*100) / 100
	}

	// Past the overtime threshold a checkout needs both a reason and a
	// proof photo; missing fields are enumerated for the client.
	if overtimeHours*60 >= float64(timing.OvertimeThresholdMinutes) && overtimeHours > 0 {
		var errs validator.ValidationErrors
		if validator.IsEmpty(req.Reason) {
			errs = append(errs, validator.ValidationError{
				Field:   "reason",
				Message: "a reason is required for overtime checkout",
			})
		}
		if validator.IsEmpty(req.PhotoRef) {
			errs = append(errs, validator.ValidationError{
				Field:   "photo_ref",
				Message: "a proof photo is required for overtime checkout",
			})
		}
		if len(errs) > 0 {
			return attendance.RecordResponse{}, errs
		}
	}

	// Half-day tagging applies only to a real checkout; auto-checkout leaves
	// classification to admin review.
	if workingHours < standardHours*0.5 {
		record.Status = attendance.StatusHalfDay
	} else if overtimeHours == 0 && workingHours < standardHours {
		if !validator.HasMinLength(req.Reason, minEarlyCheckoutReasonLength) {
			slog.Warn("Early checkout without an adequate reason",
				"employee_id", record.EmployeeID,
				"date", record.Date.Format("2006-01-02"),
				"working_hours", workingHours)
		}
	}

	record.CheckOutTime = &nowUTC
	record.WorkingHours = workingHours
	record.OvertimeHours = overtimeHours
	record.CheckOutLocation = req.Location
	if req.PhotoRef != "" {
		record.CheckOutPhotoURL = &req.PhotoRef
	}
	if req.Reason != "" {
		record.CheckOutReason = &req.Reason
	}

	if err := s.recordRepo.Update(ctx, *record); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapRecordToResponse(*record), nil
}

// findOpenRecord locates the open record for a checkout: today's date key
// first, then yesterday's when the clock is still before the early-morning
// cutoff (overnight shift crossing midnight).
func (s *RecordServiceImpl) findOpenRecord(ctx context.Context, employeeID string, nowUTC time.Time) (*attendance.Record, error) {
	dateKey := timeutil.UTCDateKey(nowUTC)

	record, err := s.recordRepo.GetByEmployeeAndDate(ctx, employeeID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record == nil && nowUTC.Hour() < earlyMorningCutoffHour {
		yesterday := dateKey.AddDate(0, 0, -1)
		record, err = s.recordRepo.GetByEmployeeAndDate(ctx, employeeID, yesterday)
		if err != nil {
			return nil, fmt.Errorf("failed to get attendance record: %w", err)
		}
	}

	if record == nil || record.CheckInTime == nil {
		return nil, attendance.ErrNotCheckedIn
	}
	if record.CheckOutTime != nil {
		return nil, attendance.ErrAlreadyCheckedOut
	}
	return record, nil
}

// Get implements attendance.RecordService.
func (s *RecordServiceImpl) Get(ctx context.Context, id string) (attendance.RecordResponse, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return mapRecordToResponse(record), nil
}

// List implements attendance.RecordService.
func (s *RecordServiceImpl) List(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    responses,
	}, nil
}

// AutoCheckoutSweep implements attendance.RecordService.
func (s *RecordServiceImpl) AutoCheckoutSweep(ctx context.Context, now time.Time) (attendance.SweepSummary, error) {
	nowUTC := now.UTC()
	since := timeutil.UTCDateKey(nowUTC).AddDate(0, 0, -s.lookbackDays)

	open, err := s.recordRepo.ListOpenOverdue(ctx, since, s.sweepBatchLimit)
	if err != nil {
		return attendance.SweepSummary{}, fmt.Errorf("failed to list open records: %w", err)
	}

	summary := attendance.SweepSummary{}
	for _, record := range open {
		summary.Processed++

		if err := s.autoCheckoutOne(ctx, record, nowUTC); err != nil {
			if errors.Is(err, errSweepSkip) {
				summary.Skipped++
				continue
			}
			summary.Failed++
			slog.Error("Auto-checkout failed for record",
				"record_id", record.ID,
				"employee_id", record.EmployeeID,
				"error", err)
			continue
		}
		summary.Corrected++
	}

	slog.Info("Auto-checkout sweep finished",
		"processed", summary.Processed,
		"corrected", summary.Corrected,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// errSweepSkip marks a record the sweep intentionally left alone.
var errSweepSkip = errors.New("sweep skip")

func (s *RecordServiceImpl) autoCheckoutOne(ctx context.Context, record attendance.Record, nowUTC time.Time) error {
	// Idempotency: a record closed by a previous pass is a no-op.
	if record.CheckOutTime != nil || record.CheckInTime == nil {
		return errSweepSkip
	}

	// Leave always wins over attendance.
	onLeave, err := s.leaves.HasApprovedLeave(ctx, record.EmployeeID, record.Date)
	if err != nil {
		return fmt.Errorf("failed to check leave: %w", err)
	}
	if onLeave {
		return errSweepSkip
	}

	timing, err := s.timings.Get(ctx, record.Department)
	if err != nil {
		return err
	}

	grace := time.Duration(timing.AutoCheckoutGraceMinutes) * time.Minute
	if !timeutil.IsOverdue(*record.CheckInTime, timing.CheckOut, grace, nowUTC) {
		return errSweepSkip
	}

	if err := s.locks.AssertUnlocked(ctx, record.Date); err != nil {
		if errors.Is(err, payrollperiod.ErrPeriodLocked) {
			return errSweepSkip
		}
		return err
	}

	closeAt := timeutil.ResolveShiftInstant(timing.CheckOut, *record.CheckInTime)
	reason := fmt.Sprintf("No check-out detected within %d minutes of the %s shift end; closed at the scheduled boundary.",
		timing.AutoCheckoutGraceMinutes, timing.CheckOut)

	record.CheckOutTime = &closeAt
	record.WorkingHours = timeutil.RoundHours(closeAt.Sub(*record.CheckInTime))
	// No overtime from a system-generated checkout; an admin review can
	// still credit it.
	record.OvertimeHours = 0
	record.AutoCorrected = true
	record.AutoCorrectionReason = &reason
	record.AdminReviewStatus = attendance.ReviewPending

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to persist auto-checkout: %w", err)
	}

	if notifyErr := s.notifier.Notify(ctx, record.EmployeeID, notification.KindAttendanceAutoCorrected, map[string]any{
		"record_id": record.ID,
		"date":      record.Date.Format("2006-01-02"),
		"reason":    reason,
	}); notifyErr != nil {
		slog.Warn("Failed to notify employee about auto-checkout",
			"employee_id", record.EmployeeID, "error", notifyErr)
	}
	return nil
}

// mapRecordToResponse converts a Record entity to RecordResponse
func mapRecordToResponse(record attendance.Record) attendance.RecordResponse {
	totalOT := 0.0
	for _, session := range record.OTSessions {
		totalOT += session.PayableHours()
	}

	return attendance.RecordResponse{
		ID:                   record.ID,
		EmployeeID:           record.EmployeeID,
		EmployeeName:         record.EmployeeName,
		Date:                 record.Date.Format("2006-01-02"),
		CheckInTime:          timePtrToString(record.CheckInTime),
		CheckOutTime:         timePtrToString(record.CheckOutTime),
		WorkingHours:         record.WorkingHours,
		OvertimeHours:        record.OvertimeHours,
		Status:               string(record.Status),
		IsLate:               record.IsLate,
		LateMinutes:          record.LateMinutes,
		AutoCorrected:        record.AutoCorrected,
		AutoCorrectionReason: record.AutoCorrectionReason,
		OriginalCheckOutTime: timePtrToString(record.OriginalCheckOutTime),
		AdminReviewStatus:    string(record.AdminReviewStatus),
		AdminReviewNotes:     record.AdminReviewNotes,
		OTSessionCount:       len(record.OTSessions),
		TotalOTHours:         math.Round(totalOT*100) / 100,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format("2006-01-02 15:04:05")
	return &format
}
