package overtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/company"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/domain/notification"
	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeSessionRepo struct {
	sessions map[string]*overtime.OTSession
	nextNum  int

	// afterGet runs after a GetByID read returns, to simulate a writer
	// slipping in between the read and the status-guarded write.
	afterGet func()
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*overtime.OTSession)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session overtime.OTSession) (overtime.OTSession, error) {
	if session.ID == "" {
		f.nextNum++
		session.ID = fmt.Sprintf("sess-%d", f.nextNum)
	}
	stored := session
	f.sessions[session.ID] = &stored
	return session, nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (overtime.OTSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return overtime.OTSession{}, overtime.ErrSessionNotFound
	}
	copied := *session
	if f.afterGet != nil {
		f.afterGet()
	}
	return copied, nil
}

func (f *fakeSessionRepo) GetInProgress(_ context.Context, employeeID string) (overtime.OTSession, error) {
	for _, session := range f.sessions {
		if session.EmployeeID == employeeID && session.Status == overtime.SessionInProgress {
			return *session, nil
		}
	}
	return overtime.OTSession{}, overtime.ErrSessionNotFound
}

func (f *fakeSessionRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) ([]overtime.OTSession, error) {
	var out []overtime.OTSession
	for _, session := range f.sessions {
		if session.EmployeeID == employeeID && session.Date.Equal(date) {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListStaleInProgress(_ context.Context, since time.Time, limit int) ([]overtime.OTSession, error) {
	var out []overtime.OTSession
	for _, session := range f.sessions {
		if session.Status == overtime.SessionInProgress && !session.Date.Before(since) && len(out) < limit {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListPendingReview(_ context.Context, limit, offset int) ([]overtime.OTSession, int64, error) {
	var out []overtime.OTSession
	for _, session := range f.sessions {
		if session.Status == overtime.SessionPendingReview {
			out = append(out, *session)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSessionRepo) UpdateFrom(_ context.Context, session overtime.OTSession, expected overtime.SessionStatus) error {
	stored, ok := f.sessions[session.ID]
	if !ok || stored.Status != expected {
		return overtime.ErrSessionStateChanged
	}
	updated := session
	f.sessions[session.ID] = &updated
	return nil
}

type fakeRecordRepo struct {
	byKey map[string]*attendance.Record
	next  int
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeRecordRepo) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	f.next++
	record.ID = fmt.Sprintf("rec-%d", f.next)
	stored := record
	f.byKey[recordKey(record.EmployeeID, record.Date)] = &stored
	return record, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	for _, record := range f.byKey {
		if record.ID == id {
			return *record, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	record, ok := f.byKey[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRecordRepo) Update(_ context.Context, record attendance.Record) error {
	stored := record
	f.byKey[recordKey(record.EmployeeID, record.Date)] = &stored
	return nil
}

func (f *fakeRecordRepo) UpdateReviewed(_ context.Context, record attendance.Record) error {
	stored := record
	f.byKey[recordKey(record.EmployeeID, record.Date)] = &stored
	return nil
}

func (f *fakeRecordRepo) List(_ context.Context, _ attendance.RecordFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecordRepo) ListRange(_ context.Context, _ string, _, _ time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) ListOpenOverdue(_ context.Context, _ time.Time, _ int) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) ListPendingInPeriod(_ context.Context, _, _ time.Time) ([]attendance.Record, error) {
	return nil, nil
}

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeDirectory) ListActive(_ context.Context) ([]employee.Employee, error) { return nil, nil }
type fakeTimingStore struct {
	timing department.ResolvedTiming
}

func (f *fakeTimingStore) Get(_ context.Context, dept string) (department.ResolvedTiming, error) {
	t := f.timing
	t.Department = dept
	return t, nil
}

func (f *fakeTimingStore) Update(_ context.Context, timing department.Timing) (department.ResolvedTiming, error) {
	return department.ResolvedTiming{Timing: timing}, nil
}

func (f *fakeTimingStore) Invalidate(string) {}
func (f *fakeTimingStore) InvalidateAll()    {}

type fakeHolidayService struct {
	holidays map[string]holiday.Holiday
}

func (f *fakeHolidayService) IsHoliday(_ context.Context, date time.Time, dept string) (holiday.Check, error) {
	h, ok := f.holidays[date.Format("2006-01-02")]
	if !ok || !h.AppliesTo(dept) {
		return holiday.Check{}, nil
	}
	return holiday.Check{IsHoliday: true, Holiday: &h}, nil
}

func (f *fakeHolidayService) ListRange(_ context.Context, _, _ time.Time, _ string) ([]holiday.Holiday, error) {
	return nil, nil
}

type fakeLeaveService struct {
	onLeave map[string]bool
}

func (f *fakeLeaveService) HasApprovedLeave(_ context.Context, employeeID string, date time.Time) (bool, error) {
	return f.onLeave[recordKey(employeeID, date)], nil
}

type fakeLockService struct {
	locked map[string]bool
}

func (f *fakeLockService) AssertUnlocked(_ context.Context, date time.Time) error {
	if f.locked[date.UTC().Format("2006-01")] {
		return payrollperiod.ErrPeriodLocked
	}
	return nil
}

func (f *fakeLockService) Lock(_ context.Context, year int, month time.Month, _ string) (payrollperiod.Lock, error) {
	f.locked[time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")] = true
	return payrollperiod.Lock{Year: year, Month: month, Status: payrollperiod.StatusLocked}, nil
}

func (f *fakeLockService) Unlock(_ context.Context, year int, month time.Month, _, _ string) (payrollperiod.Lock, error) {
	delete(f.locked, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
	return payrollperiod.Lock{Year: year, Month: month, Status: payrollperiod.StatusOpen}, nil
}

func (f *fakeLockService) Get(_ context.Context, year int, month time.Month) (payrollperiod.Lock, error) {
	return payrollperiod.Lock{Year: year, Month: month}, nil
}

type fakeSettingsService struct {
	settings company.Settings
}

func (f *fakeSettingsService) Get(_ context.Context) (company.Settings, error) {
	return f.settings, nil
}

type fakeNotifier struct {
	sent []notification.Kind
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, kind notification.Kind, _ map[string]any) error {
	f.sent = append(f.sent, kind)
	return nil
}

// ===== FIXTURE =====

type fixture struct {
	sessions *fakeSessionRepo
	records  *fakeRecordRepo
	holidays *fakeHolidayService
	leaves   *fakeLeaveService
	locks    *fakeLockService
	notifier *fakeNotifier
	svc      overtime.SessionService
}

func newFixture() *fixture {
	sessions := newFakeSessionRepo()
	records := &fakeRecordRepo{byKey: make(map[string]*attendance.Record)}
	holidays := &fakeHolidayService{holidays: make(map[string]holiday.Holiday)}
	leaves := &fakeLeaveService{onLeave: make(map[string]bool)}
	locks := &fakeLockService{locked: make(map[string]bool)}
	notifier := &fakeNotifier{}

	timings := &fakeTimingStore{timing: department.ResolvedTiming{
		Timing: department.Timing{
			CheckInTime:              "9:00 AM",
			CheckOutTime:             "6:00 PM",
			WorkingHours:             8,
			OvertimeThresholdMinutes: 30,
			LateThresholdMinutes:     15,
			AutoCheckoutGraceMinutes: 120,
			WeeklyOffDays:            []time.Weekday{time.Saturday, time.Sunday},
		},
		CheckIn:  timeutil.TimeOfDay{Hour: 9, Minute: 0},
		CheckOut: timeutil.TimeOfDay{Hour: 18, Minute: 0},
	}}

	directory := &fakeDirectory{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Dana Field", Department: "ops", Role: employee.RoleEmployee, Active: true},
	}}

	settings := &fakeSettingsService{settings: company.Settings{
		DefaultWeekendDays:  []time.Weekday{time.Saturday, time.Sunday},
		DailyOTCapHours:     4,
		DefaultOTRate:       decimal.NewFromFloat(1.5),
		StandardWorkingDays: 26,
	}}

	runInline := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	svc := NewSessionService(sessions, records, directory, timings, holidays, leaves, locks,
		settings, notifier, runInline, 16*time.Hour, 3, 500)
	return &fixture{
		sessions: sessions,
		records:  records,
		holidays: holidays,
		leaves:   leaves,
		locks:    locks,
		notifier: notifier,
		svc:      svc,
	}
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

// ===== START =====

func TestStart_LateDeparture(t *testing.T) {
	f := newFixture()

	// Monday after shift start.
	resp, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-10T18:30:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.OTTypeLateDeparture), resp.OTType)
	assert.Equal(t, 1, resp.SessionNumber)
	assert.Equal(t, string(overtime.SessionInProgress), resp.Status)
}

func TestStart_EarlyArrival(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-10T06:30:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.OTTypeEarlyArrival), resp.OTType)
}

func TestStart_Weekend(t *testing.T) {
	f := newFixture()

	// 2025-03-15 is a Saturday.
	resp, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-15T10:00:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.OTTypeWeekend), resp.OTType)
}

func TestStart_HolidayWinsOverWeekend(t *testing.T) {
	f := newFixture()
	f.holidays.holidays["2025-03-15"] = holiday.Holiday{
		Name:    "Founders Day",
		Date:    mustParse(t, "2025-03-15T00:00:00Z"),
		AllowOT: true,
	}

	resp, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-15T10:00:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.OTTypeHoliday), resp.OTType)
}

func TestStart_HolidayWithoutOTAllowance(t *testing.T) {
	f := newFixture()
	f.holidays.holidays["2025-03-10"] = holiday.Holiday{
		Name:    "Founders Day",
		Date:    mustParse(t, "2025-03-10T00:00:00Z"),
		AllowOT: false,
	}

	_, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-10T10:00:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrOTNotAllowedToday))
}

func TestStart_RejectsOpenSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:30:00Z"))
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T19:00:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrSessionAlreadyOpen))
}

func TestStart_RejectsApprovedLeave(t *testing.T) {
	f := newFixture()
	f.leaves.onLeave[recordKey("emp-1", mustParse(t, "2025-03-10T00:00:00Z"))] = true

	_, err := f.svc.Start(context.Background(), overtime.StartSessionRequest{EmployeeID: "emp-1"},
		mustParse(t, "2025-03-10T18:30:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrOnApprovedLeave))
}

func TestStart_RejectsLockedPeriod(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.locks.Lock(ctx, 2025, time.March, "master-1")
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:30:00Z"))
	assert.True(t, errors.Is(err, payrollperiod.ErrPeriodLocked))
}

func TestStart_CreatesAttendanceRecordOnWeekend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-15T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SessionNumber)

	record, err := f.records.GetByEmployeeAndDate(ctx, "emp-1", mustParse(t, "2025-03-15T00:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.Nil(t, record.CheckInTime)
}

func TestStart_SequentialSessionNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:30:00Z"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:first.ID}, mustParse(t, "2025-03-10T19:30:00Z"))
	require.NoError(t, err)

	second, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T20:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.SessionNumber)
}

// ===== END =====

func TestEnd_Completed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	resp, err := f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T20:30:00Z"))
	require.NoError(t, err)
	assert.Equal(t, string(overtime.SessionCompleted), resp.Status)
	assert.Equal(t, 2.5, resp.OTHours)
}

func TestEnd_DailyCapParksSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 5 hours against a 4-hour cap.
	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	resp, err := f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T23:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, string(overtime.SessionPendingReview), resp.Status)
	assert.Equal(t, 0.0, resp.OTHours)
	assert.Contains(t, f.notifier.sent, notification.KindOTDailyCapExceeded)
}

func TestEnd_CapCountsEarlierSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 3h completed earlier, then 2h more: the day total 5h breaks the cap.
	first, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T06:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:first.ID}, mustParse(t, "2025-03-10T09:00:00Z"))
	require.NoError(t, err)

	second, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)
	resp, err := f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:second.ID}, mustParse(t, "2025-03-10T20:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, string(overtime.SessionPendingReview), resp.Status)
}

func TestEnd_OtherEmployeesSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-2", SessionID: started.ID},
		mustParse(t, "2025-03-10T19:00:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrNotSessionOwner))

	// The session is untouched and still in progress.
	session, err := f.sessions.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, overtime.SessionInProgress, session.Status)
}

func TestEnd_NotInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T19:00:00Z"))
	require.NoError(t, err)

	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T19:30:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrSessionNotInProgress))
}

// ===== REVIEW =====

func parkPendingSession(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := context.Background()
	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)
	resp, err := f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T23:00:00Z"))
	require.NoError(t, err)
	require.Equal(t, string(overtime.SessionPendingReview), resp.Status)
	return started.ID
}

func TestReview_ApprovedRestoresWorkedHours(t *testing.T) {
	f := newFixture()
	id := parkPendingSession(t, f)

	resp, err := f.svc.Review(context.Background(), overtime.ReviewSessionRequest{
		SessionID: id,
		Action:    string(overtime.ReviewApproved),
	}, "admin-1", mustParse(t, "2025-03-11T08:00:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.SessionApproved), resp.Status)
	assert.Equal(t, 5.0, resp.OTHours)
	assert.Equal(t, "admin-1", *resp.ReviewedBy)
}

func TestReview_AdjustedStoresBothValues(t *testing.T) {
	f := newFixture()
	id := parkPendingSession(t, f)
	adjusted := 3.5

	resp, err := f.svc.Review(context.Background(), overtime.ReviewSessionRequest{
		SessionID:     id,
		Action:        string(overtime.ReviewAdjusted),
		AdjustedHours: &adjusted,
		Notes:         "capped to verified badge exit",
	}, "admin-1", mustParse(t, "2025-03-11T08:00:00Z"))

	require.NoError(t, err)
	require.NotNil(t, resp.OriginalOTHours)
	require.NotNil(t, resp.AdjustedOTHours)
	assert.Equal(t, 5.0, *resp.OriginalOTHours)
	assert.Equal(t, 3.5, *resp.AdjustedOTHours)
	assert.Equal(t, 3.5, resp.OTHours)
}

func TestReview_RejectedZeroesHours(t *testing.T) {
	f := newFixture()
	id := parkPendingSession(t, f)

	resp, err := f.svc.Review(context.Background(), overtime.ReviewSessionRequest{
		SessionID: id,
		Action:    string(overtime.ReviewRejected),
		Notes:     "no work evidence for this window",
	}, "admin-1", mustParse(t, "2025-03-11T08:00:00Z"))

	require.NoError(t, err)
	assert.Equal(t, string(overtime.SessionRejected), resp.Status)
	assert.Equal(t, 0.0, resp.OTHours)
	assert.Contains(t, f.notifier.sent, notification.KindOTSessionReviewed)
}

func TestReview_RejectedRequiresNotes(t *testing.T) {
	f := newFixture()
	id := parkPendingSession(t, f)

	_, err := f.svc.Review(context.Background(), overtime.ReviewSessionRequest{
		SessionID: id,
		Action:    string(overtime.ReviewRejected),
	}, "admin-1", mustParse(t, "2025-03-11T08:00:00Z"))
	require.Error(t, err)
}

func TestReview_CompletedSessionNotReviewable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.End(ctx, overtime.EndSessionRequest{EmployeeID: "emp-1", SessionID:started.ID}, mustParse(t, "2025-03-10T19:00:00Z"))
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, overtime.ReviewSessionRequest{
		SessionID: started.ID,
		Action:    string(overtime.ReviewApproved),
	}, "admin-1", mustParse(t, "2025-03-11T08:00:00Z"))
	assert.True(t, errors.Is(err, overtime.ErrSessionNotReviewable))
}

func TestReview_SecondReviewerLoses(t *testing.T) {
	f := newFixture()
	id := parkPendingSession(t, f)

	// Another reviewer resolves the session right after ours reads it.
	f.sessions.afterGet = func() {
		f.sessions.sessions[id].Status = overtime.SessionApproved
	}

	_, err := f.svc.Review(context.Background(), overtime.ReviewSessionRequest{
		SessionID: id,
		Action:    string(overtime.ReviewRejected),
		Notes:     "duplicate review attempt",
	}, "admin-2", mustParse(t, "2025-03-11T08:05:00Z"))

	assert.True(t, errors.Is(err, overtime.ErrSessionNotReviewable))
	// The first resolution stands untouched.
	session, getErr := f.sessions.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, overtime.SessionApproved, session.Status)
}

func TestReview_LockedPeriodBlocks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := parkPendingSession(t, f)

	_, err := f.locks.Lock(ctx, 2025, time.March, "master-1")
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, overtime.ReviewSessionRequest{
		SessionID: id,
		Action:    string(overtime.ReviewApproved),
	}, "admin-1", mustParse(t, "2025-04-01T08:00:00Z"))
	assert.True(t, errors.Is(err, payrollperiod.ErrPeriodLocked))
}

// ===== AUTO-CLOSE SWEEP =====

func TestAutoCloseSweep_ClosesStaleSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	// 17 hours later, past the 16h threshold.
	summary, err := f.svc.AutoCloseSweep(ctx, mustParse(t, "2025-03-11T11:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Closed)

	session, err := f.sessions.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, overtime.SessionPendingReview, session.Status)
	assert.Equal(t, 0.0, session.OTHours)
	require.NotNil(t, session.EndTime)
	assert.Equal(t, mustParse(t, "2025-03-10T23:59:59Z"), session.EndTime.UTC())
	assert.NotNil(t, session.AutoClosedAt)
	assert.NotNil(t, session.AutoClosedNote)
	assert.Contains(t, f.notifier.sent, notification.KindOTSessionAutoClosed)
}

func TestAutoCloseSweep_LeavesFreshSessionsAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	summary, err := f.svc.AutoCloseSweep(ctx, mustParse(t, "2025-03-10T22:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Closed)
	assert.Equal(t, 1, summary.Skipped)
}

func TestAutoCloseSweep_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)

	now := mustParse(t, "2025-03-11T11:00:00Z")
	_, err = f.svc.AutoCloseSweep(ctx, now)
	require.NoError(t, err)

	summary, err := f.svc.AutoCloseSweep(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
}

func TestReview_ApprovesAutoClosedFromRawTimestamps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started, err := f.svc.Start(ctx, overtime.StartSessionRequest{EmployeeID: "emp-1"}, mustParse(t, "2025-03-10T18:00:00Z"))
	require.NoError(t, err)
	_, err = f.svc.AutoCloseSweep(ctx, mustParse(t, "2025-03-11T11:00:00Z"))
	require.NoError(t, err)

	resp, err := f.svc.Review(ctx, overtime.ReviewSessionRequest{
		SessionID: started.ID,
		Action:    string(overtime.ReviewApproved),
	}, "admin-1", mustParse(t, "2025-03-11T12:00:00Z"))

	require.NoError(t, err)
	// 18:00 to the forced 23:59:59 close.
	assert.InDelta(t, 6.0, resp.OTHours, 0.01)
}
