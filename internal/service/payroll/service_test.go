package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/company"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
	"github.com/attendly/timepay-engine-go/internal/domain/payroll"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordRepo struct {
	records []attendance.Record
	pending []attendance.Record
}

func (f *fakeRecordRepo) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) Update(_ context.Context, _ attendance.Record) error { return nil }

func (f *fakeRecordRepo) UpdateReviewed(_ context.Context, _ attendance.Record) error { return nil }

func (f *fakeRecordRepo) List(_ context.Context, _ attendance.RecordFilter) ([]attendance.Record, int64, error) {
	return f.records, int64(len(f.records)), nil
}

func (f *fakeRecordRepo) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, record := range f.records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.Date.Before(from) || record.Date.After(to) {
			continue
		}
		if record.AdminReviewStatus == attendance.ReviewPending {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeRecordRepo) ListOpenOverdue(_ context.Context, _ time.Time, _ int) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) ListPendingInPeriod(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, record := range f.pending {
		if !record.Date.Before(from) && !record.Date.After(to) {
			out = append(out, record)
		}
	}
	return out, nil
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

func (f *fakeDirectory) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.Active {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeTimingStore struct {
	weeklyOff []time.Weekday
}

func (f *fakeTimingStore) Get(_ context.Context, dept string) (department.ResolvedTiming, error) {
	return department.ResolvedTiming{
		Timing: department.Timing{
			Department:    dept,
			CheckInTime:   "9:00 AM",
			CheckOutTime:  "6:00 PM",
			WorkingHours:  8,
			WeeklyOffDays: f.weeklyOff,
		},
		CheckIn:  timeutil.TimeOfDay{Hour: 9, Minute: 0},
		CheckOut: timeutil.TimeOfDay{Hour: 18, Minute: 0},
	}, nil
}

func (f *fakeTimingStore) Update(_ context.Context, timing department.Timing) (department.ResolvedTiming, error) {
	return department.ResolvedTiming{Timing: timing}, nil
}

func (f *fakeTimingStore) Invalidate(string) {}
func (f *fakeTimingStore) InvalidateAll()    {}

type fakeHolidayService struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayService) IsHoliday(_ context.Context, date time.Time, dept string) (holiday.Check, error) {
	for _, h := range f.holidays {
		if h.Date.Equal(date) && h.AppliesTo(dept) {
			return holiday.Check{IsHoliday: true, Holiday: &h}, nil
		}
	}
	return holiday.Check{}, nil
}

func (f *fakeHolidayService) ListRange(_ context.Context, from, to time.Time, dept string) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) && h.AppliesTo(dept) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeSettingsService struct{}

func (f *fakeSettingsService) Get(_ context.Context) (company.Settings, error) {
	return company.Settings{
		DefaultWeekendDays:  []time.Weekday{time.Saturday, time.Sunday},
		DailyOTCapHours:     4,
		DefaultOTRate:       decimal.NewFromFloat(1.5),
		StandardWorkingDays: 26,
	}, nil
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func presentRecord(t *testing.T, employeeID, day string) attendance.Record {
	t.Helper()
	return attendance.Record{
		ID:         "rec-" + employeeID + "-" + day,
		EmployeeID: employeeID,
		Date:       date(t, day),
		Department: "ops",
		Status:     attendance.StatusPresent,
	}
}

type fixture struct {
	repo      *fakeRecordRepo
	directory *fakeDirectory
	timings   *fakeTimingStore
	holidays  *fakeHolidayService
	svc       payroll.Service
}

func newFixture() *fixture {
	repo := &fakeRecordRepo{}
	timings := &fakeTimingStore{weeklyOff: []time.Weekday{time.Saturday, time.Sunday}}
	directory := &fakeDirectory{employees: map[string]employee.Employee{
		"emp-1": {
			ID: "emp-1", FullName: "Dana Field", Department: "ops",
			Role: employee.RoleEmployee, Active: true,
			MonthlyComponents: decimal.NewFromInt(5200),
		},
		"master-1": {
			ID: "master-1", FullName: "Pat Chief", Department: "ops",
			Role: employee.RoleMaster, Active: false,
		},
	}}
	holidays := &fakeHolidayService{}
	svc := NewService(repo, directory, timings, holidays, &fakeSettingsService{})
	return &fixture{repo: repo, directory: directory, timings: timings, holidays: holidays, svc: svc}
}

// ===== ENRICHMENT =====

func TestEnrich_InjectsHolidayAndWeeklyOff(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = []holiday.Holiday{{Name: "Founders Day", Date: date(t, "2025-03-12")}}

	// Mon 10th worked; Tue 11th uncovered working day; Wed 12th holiday;
	// Sat 15th / Sun 16th weekly off.
	records := []attendance.Record{presentRecord(t, "emp-1", "2025-03-10")}
	enriched, err := f.svc.EnrichWithStatutoryDays(context.Background(), "emp-1",
		date(t, "2025-03-10"), date(t, "2025-03-16"), records)

	require.NoError(t, err)
	byDay := map[string]attendance.Status{}
	for _, record := range enriched {
		byDay[record.Date.Format("2006-01-02")] = record.Status
	}
	assert.Equal(t, attendance.StatusPresent, byDay["2025-03-10"])
	assert.Equal(t, attendance.StatusHoliday, byDay["2025-03-12"])
	assert.Equal(t, attendance.StatusWeeklyOff, byDay["2025-03-15"])
	assert.Equal(t, attendance.StatusWeeklyOff, byDay["2025-03-16"])
	// An uncovered working day stays uncovered, it is not an absence row.
	_, injected := byDay["2025-03-11"]
	assert.False(t, injected)
}

func TestEnrich_EmptyWeekendFallsBackToCompanyDefault(t *testing.T) {
	f := newFixture()
	f.timings.weeklyOff = nil

	records := []attendance.Record{presentRecord(t, "emp-1", "2025-03-10")}
	enriched, err := f.svc.EnrichWithStatutoryDays(context.Background(), "emp-1",
		date(t, "2025-03-10"), date(t, "2025-03-16"), records)

	require.NoError(t, err)
	byDay := map[string]attendance.Status{}
	for _, record := range enriched {
		byDay[record.Date.Format("2006-01-02")] = record.Status
	}
	// Sat 15th / Sun 16th come from the company default weekend.
	assert.Equal(t, attendance.StatusWeeklyOff, byDay["2025-03-15"])
	assert.Equal(t, attendance.StatusWeeklyOff, byDay["2025-03-16"])
}

func TestEnrich_NeverOverwritesExistingRecord(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = []holiday.Holiday{{Name: "Founders Day", Date: date(t, "2025-03-10")}}

	// Worked on the holiday: the real record wins.
	records := []attendance.Record{presentRecord(t, "emp-1", "2025-03-10")}
	enriched, err := f.svc.EnrichWithStatutoryDays(context.Background(), "emp-1",
		date(t, "2025-03-10"), date(t, "2025-03-10"), records)

	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, attendance.StatusPresent, enriched[0].Status)
}

// ===== WEIGHTING =====

func TestWeightedPayableDays(t *testing.T) {
	records := []attendance.Record{
		{Status: attendance.StatusPresent},
		{Status: attendance.StatusLate},
		{Status: attendance.StatusHalfDay},
		{Status: attendance.StatusHoliday},
		{Status: attendance.StatusWeeklyOff},
		{Status: attendance.StatusAbsent},
	}
	assert.Equal(t, 4.5, weightedPayableDays(records))
}

// ===== GENERATE =====

func TestGenerate_BlocksOnPendingReview(t *testing.T) {
	f := newFixture()
	pending := presentRecord(t, "emp-1", "2025-03-10")
	pending.AdminReviewStatus = attendance.ReviewPending
	f.repo.pending = []attendance.Record{pending}

	_, err := f.svc.Generate(context.Background(), 2025, time.March, false, "emp-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, payroll.ErrPendingReviewExists))

	var pendingErr *payroll.PendingReviewError
	require.True(t, errors.As(err, &pendingErr))
	assert.Equal(t, []string{pending.ID}, pendingErr.RecordIDs)
}

func TestGenerate_ForceRequiresMaster(t *testing.T) {
	f := newFixture()
	pending := presentRecord(t, "emp-1", "2025-03-10")
	pending.AdminReviewStatus = attendance.ReviewPending
	f.repo.pending = []attendance.Record{pending}

	_, err := f.svc.Generate(context.Background(), 2025, time.March, true, "emp-1")
	assert.True(t, errors.Is(err, payroll.ErrForceNotPermitted))
}

func TestGenerate_ForcedRunRecordsExcludedDays(t *testing.T) {
	f := newFixture()
	pending := presentRecord(t, "emp-1", "2025-03-10")
	pending.AdminReviewStatus = attendance.ReviewPending
	f.repo.pending = []attendance.Record{pending}
	f.repo.records = []attendance.Record{pending}

	result, err := f.svc.Generate(context.Background(), 2025, time.March, true, "master-1")
	require.NoError(t, err)
	assert.True(t, result.Forced)
	require.Len(t, result.ExcludedDays, 1)
	assert.Equal(t, pending.ID, result.ExcludedDays[0].RecordID)

	// The pending day contributes nothing to the summary.
	require.Len(t, result.Summaries, 1)
	worked := 0.0
	for _, s := range result.Summaries {
		worked += s.WeightedPayableDays
	}
	// March 2025 weekends only: 5 Saturdays + 5 Sundays.
	assert.Equal(t, 10.0, worked)
}

func TestGenerate_Amounts(t *testing.T) {
	f := newFixture()
	// Two full weekdays worked plus 2 approved OT hours.
	end := date(t, "2025-03-10").Add(20 * time.Hour)
	rec1 := presentRecord(t, "emp-1", "2025-03-10")
	rec1.OTSessions = []overtime.OTSession{{
		Status:  overtime.SessionApproved,
		OTHours: 2,
		EndTime: &end,
	}}
	rec2 := presentRecord(t, "emp-1", "2025-03-11")
	f.repo.records = []attendance.Record{rec1, rec2}
	// Shrink the window to two days to keep the arithmetic readable.
	report, err := f.svc.Report(context.Background(), "emp-1", date(t, "2025-03-10"), date(t, "2025-03-11"))
	require.NoError(t, err)
	require.Len(t, report, 2)

	result, err := f.svc.Generate(context.Background(), 2025, time.March, false, "emp-1")
	require.NoError(t, err)
	require.Len(t, result.Summaries, 1)
	summary := result.Summaries[0]

	// 5200 / 26 = 200 daily; hourly 25; OT 25 * 1.5 * 2 = 75.
	assert.Equal(t, "200", summary.DailyRate.String())
	assert.Equal(t, 2.0, summary.TotalOTHours)
	assert.Equal(t, "75", summary.OTAmount.String())
	// 2 worked + 10 weekend statutory days.
	assert.Equal(t, 12.0, summary.WeightedPayableDays)
	assert.Equal(t, "2400", summary.EarnedAmount.String())
	assert.Equal(t, "2475", summary.TotalAmount.String())
}

func TestReport_ExcludesPendingRecords(t *testing.T) {
	f := newFixture()
	clean := presentRecord(t, "emp-1", "2025-03-10")
	flagged := presentRecord(t, "emp-1", "2025-03-11")
	flagged.AdminReviewStatus = attendance.ReviewPending
	f.repo.records = []attendance.Record{clean, flagged}

	report, err := f.svc.Report(context.Background(), "emp-1", date(t, "2025-03-10"), date(t, "2025-03-11"))
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, clean.ID, report[0].ID)
}
