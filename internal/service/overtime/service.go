package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/company"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/domain/leave"
	"github.com/attendly/timepay-engine-go/internal/domain/notification"
	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/google/uuid"
)

// TxRunner executes fn atomically. Production wires it to the database
// transaction helper so each read-check-write sequence commits or rolls back
// as one unit.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SessionServiceImpl implements overtime.SessionService.
type SessionServiceImpl struct {
	sessionRepo overtime.SessionRepository
	recordRepo  attendance.RecordRepository
	directory   employee.Directory
	timings     department.TimingStore
	holidays    holiday.Service
	leaves      leave.Service
	locks       payrollperiod.LockService
	settings    company.SettingsService
	notifier    notification.Service
	tx          TxRunner

	autoCloseAfter  time.Duration
	lookbackDays    int
	sweepBatchLimit int
}

func NewSessionService(
	sessionRepo overtime.SessionRepository,
	recordRepo attendance.RecordRepository,
	directory employee.Directory,
	timings department.TimingStore,
	holidays holiday.Service,
	leaves leave.Service,
	locks payrollperiod.LockService,
	settings company.SettingsService,
	notifier notification.Service,
	tx TxRunner,
	autoCloseAfter time.Duration,
	lookbackDays int,
	sweepBatchLimit int,
) overtime.SessionService {
	return &SessionServiceImpl{
		sessionRepo:     sessionRepo,
		recordRepo:      recordRepo,
		directory:       directory,
		timings:         timings,
		holidays:        holidays,
		leaves:          leaves,
		locks:           locks,
		settings:        settings,
		notifier:        notifier,
		tx:              tx,
		autoCloseAfter:  autoCloseAfter,
		lookbackDays:    lookbackDays,
		sweepBatchLimit: sweepBatchLimit,
	}
}

// Start implements overtime.SessionService.
func (s *SessionServiceImpl) Start(ctx context.Context, req overtime.StartSessionRequest, now time.Time) (overtime.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SessionResponse{}, err
	}

	now = now.UTC()
	dateKey := timeutil.UTCDateKey(now)

	emp, err := s.directory.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return overtime.SessionResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.Active {
		return overtime.SessionResponse{}, attendance.ErrEmployeeInactive
	}
	if emp.Department == "" {
		return overtime.SessionResponse{}, attendance.ErrNoDepartment
	}

	if err := s.locks.AssertUnlocked(ctx, dateKey); err != nil {
		return overtime.SessionResponse{}, err
	}

	onLeave, err := s.leaves.HasApprovedLeave(ctx, emp.ID, dateKey)
	if err != nil {
		return overtime.SessionResponse{}, fmt.Errorf("failed to check leave: %w", err)
	}
	if onLeave {
		return overtime.SessionResponse{}, overtime.ErrOnApprovedLeave
	}

	check, err := s.holidays.IsHoliday(ctx, dateKey, emp.Department)
	if err != nil {
		return overtime.SessionResponse{}, fmt.Errorf("failed to check holiday: %w", err)
	}
	if check.IsHoliday && !check.Holiday.AllowOT {
		return overtime.SessionResponse{}, fmt.Errorf("%w (%s)", overtime.ErrOTNotAllowedToday, check.Holiday.Name)
	}

	if _, err := s.sessionRepo.GetInProgress(ctx, emp.ID); err == nil {
		return overtime.SessionResponse{}, overtime.ErrSessionAlreadyOpen
	} else if !errors.Is(err, overtime.ErrSessionNotFound) {
		return overtime.SessionResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}

	timing, err := s.timings.Get(ctx, emp.Department)
	if err != nil {
		return overtime.SessionResponse{}, fmt.Errorf("failed to get department timing: %w", err)
	}

	otType, err := s.classify(ctx, check, timing, dateKey, now)
	if err != nil {
		return overtime.SessionResponse{}, err
	}

	var created overtime.OTSession
	err = s.tx(ctx, func(ctx context.Context) error {
		record, err := s.ensureAttendanceRecord(ctx, emp, dateKey, now)
		if err != nil {
			return err
		}

		existing, err := s.sessionRepo.ListByEmployeeAndDate(ctx, emp.ID, dateKey)
		if err != nil {
			return fmt.Errorf("failed to list today's sessions: %w", err)
		}

		session := overtime.OTSession{
			ID:                 uuid.New().String(),
			AttendanceRecordID: record.ID,
			EmployeeID:         emp.ID,
			Date:               dateKey,
			SessionNumber:      len(existing) + 1,
			OTType:             otType,
			StartTime:          now,
			Status:             overtime.SessionInProgress,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		created, err = s.sessionRepo.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to create overtime session: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.SessionResponse{}, err
	}

	return mapSessionToResponse(created), nil
}

// classify picks the session's OT type. Holiday wins over weekend, weekend
// over the clock-relative types.
func (s *SessionServiceImpl) classify(ctx context.Context, check holiday.Check, timing department.ResolvedTiming, dateKey, now time.Time) (overtime.OTType, error) {
	if check.IsHoliday {
		return overtime.OTTypeHoliday, nil
	}

	weekendDays := timing.WeeklyOffDays
	if len(weekendDays) == 0 {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get company settings: %w", err)
		}
		weekendDays = settings.DefaultWeekendDays
	}
	for _, day := range weekendDays {
		if day == dateKey.Weekday() {
			return overtime.OTTypeWeekend, nil
		}
	}

	shiftStart := time.Date(dateKey.Year(), dateKey.Month(), dateKey.Day(),
		timing.CheckIn.Hour, timing.CheckIn.Minute, 0, 0, time.UTC)
	if now.Before(shiftStart) {
		return overtime.OTTypeEarlyArrival, nil
	}
	return overtime.OTTypeLateDeparture, nil
}

// ensureAttendanceRecord returns the day's record, creating a bare present
// one when the employee started overtime without checking in (weekend and
// holiday sessions usually do).
func (s *SessionServiceImpl) ensureAttendanceRecord(ctx context.Context, emp employee.Employee, dateKey, now time.Time) (attendance.Record, error) {
	existing, err := s.recordRepo.GetByEmployeeAndDate(ctx, emp.ID, dateKey)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	record := attendance.Record{
		EmployeeID:        emp.ID,
		Date:              dateKey,
		Department:        emp.Department,
		AttendanceType:    attendance.TypeOnSite,
		Status:            attendance.StatusPresent,
		AdminReviewStatus: attendance.ReviewNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	created, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

// End implements overtime.SessionService.
func (s *SessionServiceImpl) End(ctx context.Context, req overtime.EndSessionRequest, now time.Time) (overtime.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SessionResponse{}, err
	}

	now = now.UTC()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return overtime.SessionResponse{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	var (
		session     overtime.OTSession
		dayTotal    float64
		hours       float64
		capExceeded bool
	)
	err = s.tx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.GetByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if session.EmployeeID != req.EmployeeID {
			return overtime.ErrNotSessionOwner
		}
		if session.Status != overtime.SessionInProgress {
			return overtime.ErrSessionNotInProgress
		}

		if err := s.locks.AssertUnlocked(ctx, session.Date); err != nil {
			return err
		}

		hours = timeutil.RoundHours(now.Sub(session.StartTime))
		session.EndTime = &now
		session.UpdatedAt = now

		siblings, err := s.sessionRepo.ListByEmployeeAndDate(ctx, session.EmployeeID, session.Date)
		if err != nil {
			return fmt.Errorf("failed to list today's sessions: %w", err)
		}
		dayTotal = hours
		for _, sibling := range siblings {
			if sibling.ID == session.ID {
				continue
			}
			dayTotal += sibling.PayableHours()
		}

		if settings.DailyOTCapHours > 0 && dayTotal > settings.DailyOTCapHours {
			// Hours past the cap are not trusted until an admin looks at them.
			capExceeded = true
			session.Status = overtime.SessionPendingReview
			session.OTHours = 0
		} else {
			session.Status = overtime.SessionCompleted
			session.OTHours = hours
		}

		if err := s.sessionRepo.UpdateFrom(ctx, session, overtime.SessionInProgress); err != nil {
			if errors.Is(err, overtime.ErrSessionStateChanged) {
				return overtime.ErrSessionNotInProgress
			}
			return fmt.Errorf("failed to update overtime session: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.SessionResponse{}, err
	}

	if capExceeded {
		if err := s.notifier.Notify(ctx, session.EmployeeID, notification.KindOTDailyCapExceeded, map[string]any{
			"session_id":   session.ID,
			"date":         session.Date.Format("2006-01-02"),
			"day_total":    dayTotal,
			"daily_cap":    settings.DailyOTCapHours,
			"worked_hours": hours,
		}); err != nil {
			slog.Warn("failed to send daily cap notification", "session_id", session.ID, "error", err)
		}
	}
	return mapSessionToResponse(session), nil
}

// Review implements overtime.SessionService.
func (s *SessionServiceImpl) Review(ctx context.Context, req overtime.ReviewSessionRequest, reviewerID string, now time.Time) (overtime.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SessionResponse{}, err
	}

	now = now.UTC()

	action := overtime.ReviewAction(req.Action)
	var session overtime.OTSession
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.GetByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if session.Status == overtime.SessionLocked {
			return overtime.ErrSessionLocked
		}
		if session.Status != overtime.SessionPendingReview {
			return overtime.ErrSessionNotReviewable
		}

		if err := s.locks.AssertUnlocked(ctx, session.Date); err != nil {
			return err
		}

		workedHours := session.OTHours
		if session.EndTime != nil {
			// Pending sessions carry zero hours; the raw timestamps are the
			// source of truth for what was actually worked.
			workedHours = timeutil.RoundHours(session.EndTime.Sub(session.StartTime))
		}

		switch action {
		case overtime.ReviewApproved:
			session.Status = overtime.SessionApproved
			session.OTHours = workedHours
		case overtime.ReviewAdjusted:
			original := workedHours
			session.Status = overtime.SessionApproved
			session.OriginalOTHours = &original
			session.AdjustedOTHours = req.AdjustedHours
			session.OTHours = *req.AdjustedHours
		case overtime.ReviewRejected:
			session.Status = overtime.SessionRejected
			session.OTHours = 0
		}

		session.ReviewedBy = &reviewerID
		session.ReviewedAt = &now
		session.ReviewAction = &action
		if req.Notes != "" {
			session.ReviewNotes = &req.Notes
		}
		session.UpdatedAt = now

		if err := s.sessionRepo.UpdateFrom(ctx, session, overtime.SessionPendingReview); err != nil {
			if errors.Is(err, overtime.ErrSessionStateChanged) {
				return overtime.ErrSessionNotReviewable
			}
			return fmt.Errorf("failed to update overtime session: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.SessionResponse{}, err
	}

	if err := s.notifier.Notify(ctx, session.EmployeeID, notification.KindOTSessionReviewed, map[string]any{
		"session_id": session.ID,
		"date":       session.Date.Format("2006-01-02"),
		"action":     string(action),
		"ot_hours":   session.PayableHours(),
	}); err != nil {
		slog.Warn("failed to send review notification", "session_id", session.ID, "error", err)
	}

	return mapSessionToResponse(session), nil
}

// Status implements overtime.SessionService.
func (s *SessionServiceImpl) Status(ctx context.Context, employeeID string, now time.Time) (overtime.ListSessionsResponse, error) {
	dateKey := timeutil.UTCDateKey(now.UTC())

	sessions, err := s.sessionRepo.ListByEmployeeAndDate(ctx, employeeID, dateKey)
	if err != nil {
		return overtime.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := overtime.ListSessionsResponse{
		TotalCount: int64(len(sessions)),
		Sessions:   make([]overtime.SessionResponse, 0, len(sessions)),
	}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, mapSessionToResponse(session))
	}
	return resp, nil
}

// ListPending implements overtime.SessionService.
func (s *SessionServiceImpl) ListPending(ctx context.Context, limit, offset int) (overtime.ListSessionsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := s.sessionRepo.ListPendingReview(ctx, limit, offset)
	if err != nil {
		return overtime.ListSessionsResponse{}, fmt.Errorf("failed to list pending sessions: %w", err)
	}

	resp := overtime.ListSessionsResponse{
		TotalCount: total,
		Sessions:   make([]overtime.SessionResponse, 0, len(sessions)),
	}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, mapSessionToResponse(session))
	}
	return resp, nil
}

// AutoCloseSweep implements overtime.SessionService.
func (s *SessionServiceImpl) AutoCloseSweep(ctx context.Context, now time.Time) (overtime.SweepSummary, error) {
	now = now.UTC()
	since := timeutil.UTCDateKey(now).AddDate(0, 0, -s.lookbackDays)

	stale, err := s.sessionRepo.ListStaleInProgress(ctx, since, s.sweepBatchLimit)
	if err != nil {
		return overtime.SweepSummary{}, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	var summary overtime.SweepSummary
	for _, session := range stale {
		summary.Processed++
		if err := s.autoCloseOne(ctx, session, now); err != nil {
			if errors.Is(err, errSweepSkip) {
				summary.Skipped++
				continue
			}
			summary.Failed++
			slog.Error("auto-close failed for session",
				"session_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err,
			)
			continue
		}
		summary.Closed++
	}

	slog.Info("overtime auto-close sweep finished",
		"processed", summary.Processed,
		"closed", summary.Closed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

var errSweepSkip = errors.New("sweep skip")

func (s *SessionServiceImpl) autoCloseOne(ctx context.Context, session overtime.OTSession, now time.Time) error {
	if session.Status != overtime.SessionInProgress {
		return errSweepSkip
	}
	if now.Sub(session.StartTime) <= s.autoCloseAfter {
		return errSweepSkip
	}
	if err := s.locks.AssertUnlocked(ctx, session.Date); err != nil {
		if errors.Is(err, payrollperiod.ErrPeriodLocked) {
			return errSweepSkip
		}
		return err
	}

	closeAt := timeutil.EndOfDay(session.Date)
	note := fmt.Sprintf("auto-closed: session open longer than %s", s.autoCloseAfter)

	session.EndTime = &closeAt
	session.OTHours = 0
	session.Status = overtime.SessionPendingReview
	session.AutoClosedAt = &now
	session.AutoClosedNote = &note
	session.UpdatedAt = now

	if err := s.sessionRepo.UpdateFrom(ctx, session, overtime.SessionInProgress); err != nil {
		if errors.Is(err, overtime.ErrSessionStateChanged) {
			return errSweepSkip
		}
		return fmt.Errorf("failed to update session: %w", err)
	}

	if err := s.notifier.Notify(ctx, session.EmployeeID, notification.KindOTSessionAutoClosed, map[string]any{
		"session_id": session.ID,
		"date":       session.Date.Format("2006-01-02"),
		"closed_at":  closeAt.Format(time.RFC3339),
	}); err != nil {
		slog.Warn("failed to send auto-close notification", "session_id", session.ID, "error", err)
	}
	return nil
}

func mapSessionToResponse(session overtime.OTSession) overtime.SessionResponse {
	resp := overtime.SessionResponse{
		ID:              session.ID,
		EmployeeID:      session.EmployeeID,
		Date:            session.Date.Format("2006-01-02"),
		SessionNumber:   session.SessionNumber,
		OTType:          string(session.OTType),
		StartTime:       session.StartTime.UTC().Format("2006-01-02 15:04:05"),
		OTHours:         session.OTHours,
		Status:          string(session.Status),
		ReviewedBy:      session.ReviewedBy,
		ReviewNotes:     session.ReviewNotes,
		OriginalOTHours: session.OriginalOTHours,
		AdjustedOTHours: session.AdjustedOTHours,
		AutoClosedNote:  session.AutoClosedNote,
	}
	if session.EndTime != nil {
		endStr := session.EndTime.UTC().Format("2006-01-02 15:04:05")
		resp.EndTime = &endStr
	}
	return resp
}

var _ overtime.SessionService = (*SessionServiceImpl)(nil)
