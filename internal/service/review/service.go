package review

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/notification"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// TxRunner executes fn atomically. Production wires it to the database
// transaction helper so the pending check, the lock check, and the review
// write commit or roll back as one unit.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ReviewServiceImpl implements attendance.ReviewService.
type ReviewServiceImpl struct {
	recordRepo attendance.RecordRepository
	timings    department.TimingStore
	locks      payrollperiod.LockService
	notifier   notification.Service
	tx         TxRunner
}

func NewReviewService(
	recordRepo attendance.RecordRepository,
	timings department.TimingStore,
	locks payrollperiod.LockService,
	notifier notification.Service,
	tx TxRunner,
) attendance.ReviewService {
	return &ReviewServiceImpl{
		recordRepo: recordRepo,
		timings:    timings,
		locks:      locks,
		notifier:   notifier,
		tx:         tx,
	}
}

// Apply implements attendance.ReviewService.
func (s *ReviewServiceImpl) Apply(ctx context.Context, req attendance.ReviewRequest, reviewerID string, now time.Time) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now = now.UTC()

	action := attendance.ReviewStatus(req.Action)
	var record attendance.Record
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.recordRepo.GetByID(ctx, req.RecordID)
		if err != nil {
			return err
		}
		if record.AdminReviewStatus != attendance.ReviewPending {
			return attendance.ErrRecordNotPending
		}

		if err := s.locks.AssertUnlocked(ctx, record.Date); err != nil {
			return err
		}

		switch action {
		case attendance.ReviewAccepted:
			// The auto-corrected checkout stands as written and the day
			// counts as a normal present day again.
			record.Status = attendance.StatusPresent

		case attendance.ReviewAdjusted:
			if err := s.adjustTimes(ctx, &record, req); err != nil {
				return err
			}

		case attendance.ReviewRejected:
			// The whole day is voided.
			record.Status = attendance.StatusAbsent
			record.CheckOutTime = nil
			record.WorkingHours = 0
			record.OvertimeHours = 0
		}

		record.AdminReviewStatus = action
		record.AdminReviewedBy = &reviewerID
		record.AdminReviewedAt = &now
		if req.Notes != "" {
			record.AdminReviewNotes = &req.Notes
		}
		record.UpdatedAt = now

		// The pending guard in the repository makes the first reviewer win
		// when two resolve the same record at once.
		if err := s.recordRepo.UpdateReviewed(ctx, record); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if err := s.notifier.Notify(ctx, record.EmployeeID, notification.KindAttendanceReviewed, map[string]any{
		"record_id": record.ID,
		"date":      record.Date.Format("2006-01-02"),
		"action":    string(action),
	}); err != nil {
		slog.Warn("failed to send review notification", "record_id", record.ID, "error", err)
	}

	return mapRecordToResponse(record), nil
}

// adjustTimes rewrites the record's times from the admin's values and
// recomputes the derived fields. The auto-corrected checkout is preserved in
// OriginalCheckOutTime for audit.
func (s *ReviewServiceImpl) adjustTimes(ctx context.Context, record *attendance.Record, req attendance.ReviewRequest) error {
	checkIn, err := time.Parse(time.RFC3339, *req.CheckInTime)
	if err != nil {
		return validator.ValidationErrors{{
			Field:   "check_in_time",
			Message: "check_in_time must be RFC 3339",
		}}
	}
	checkOut, err := time.Parse(time.RFC3339, *req.CheckOutTime)
	if err != nil {
		return validator.ValidationErrors{{
			Field:   "check_out_time",
			Message: "check_out_time must be RFC 3339",
		}}
	}
	checkIn = checkIn.UTC()
	checkOut = checkOut.UTC()
	if !checkOut.After(checkIn) {
		return validator.ValidationErrors{{
			Field:   "check_out_time",
			Message: "check_out_time must be after check_in_time",
		}}
	}

	if record.OriginalCheckOutTime == nil {
		record.OriginalCheckOutTime = record.CheckOutTime
	}
	record.CheckInTime = &checkIn
	record.CheckOutTime = &checkOut
	record.WorkingHours = timeutil.RoundHours(checkOut.Sub(checkIn))

	timing, err := s.timings.Get(ctx, record.Department)
	if err != nil {
		return fmt.Errorf("failed to get department timing: %w", err)
	}
	standard := float64(timing.WorkingHours)
	if record.WorkingHours > standard {
		record.OvertimeHours = timeutil.RoundHours(time.Duration((record.WorkingHours - standard) * float64(time.Hour)))
	} else {
		record.OvertimeHours = 0
	}

	switch {
	case record.WorkingHours < standard/2:
		record.Status = attendance.StatusHalfDay
	case record.IsLate:
		record.Status = attendance.StatusLate
	default:
		record.Status = attendance.StatusPresent
	}
	return nil
}

// ListPending implements attendance.ReviewService.
func (s *ReviewServiceImpl) ListPending(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	filter.IncludePending = true
	filter.OnlyPending = true
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list pending records: %w", err)
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, record := range records {
		resp.Records = append(resp.Records, mapRecordToResponse(record))
	}
	return resp, nil
}

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

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format("2006-01-02 15:04:05")
	return &format
}

var _ attendance.ReviewService = (*ReviewServiceImpl)(nil)
