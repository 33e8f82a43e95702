package payroll

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
	"github.com/attendly/timepay-engine-go/internal/domain/company"
	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/domain/payroll"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// generateConcurrency caps how many employees are aggregated in parallel.
const generateConcurrency = 8

// ServiceImpl implements payroll.Service.
type ServiceImpl struct {
	recordRepo attendance.RecordRepository
	directory  employee.Directory
	timings    department.TimingStore
	holidays   holiday.Service
	settings   company.SettingsService
}

func NewService(
	recordRepo attendance.RecordRepository,
	directory employee.Directory,
	timings department.TimingStore,
	holidays holiday.Service,
	settings company.SettingsService,
) payroll.Service {
	return &ServiceImpl{
		recordRepo: recordRepo,
		directory:  directory,
		timings:    timings,
		holidays:   holidays,
		settings:   settings,
	}
}

// EnrichWithStatutoryDays implements payroll.Service.
func (s *ServiceImpl) EnrichWithStatutoryDays(ctx context.Context, employeeID string, from, to time.Time, records []attendance.Record) ([]attendance.Record, error) {
	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	timing, err := s.timings.Get(ctx, emp.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to get department timing: %w", err)
	}
	if len(timing.WeeklyOffDays) == 0 {
		// A department with no weekend set falls back to the company default,
		// the same rule session classification applies.
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get company settings: %w", err)
		}
		timing.WeeklyOffDays = settings.DefaultWeekendDays
	}

	holidays, err := s.holidays.ListRange(ctx, from, to, emp.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	holidayByDate := make(map[string]holiday.Holiday, len(holidays))
	for _, h := range holidays {
		holidayByDate[h.Date.Format("2006-01-02")] = h
	}

	covered := make(map[string]bool, len(records))
	for _, record := range records {
		covered[record.Date.Format("2006-01-02")] = true
	}

	enriched := records
	from = timeutil.UTCDateKey(from)
	to = timeutil.UTCDateKey(to)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if covered[key] {
			continue
		}

		var status attendance.Status
		if _, ok := holidayByDate[key]; ok {
			status = attendance.StatusHoliday
		} else if timing.IsWeeklyOff(day.Weekday()) {
			status = attendance.StatusWeeklyOff
		} else {
			continue
		}

		enriched = append(enriched, attendance.Record{
			EmployeeID: employeeID,
			Date:       day,
			Department: emp.Department,
			Status:     status,
		})
	}

	sort.Slice(enriched, func(i, j int) bool {
		return enriched[i].Date.Before(enriched[j].Date)
	})
	return enriched, nil
}

// weightedPayableDays sums day weights: a half day counts 0.5, any other
// worked or statutory day counts 1, an absence counts 0.
func weightedPayableDays(records []attendance.Record) float64 {
	total := 0.0
	for _, record := range records {
		switch record.Status {
		case attendance.StatusHalfDay:
			total += 0.5
		case attendance.StatusPresent, attendance.StatusLate,
			attendance.StatusHoliday, attendance.StatusWeeklyOff:
			total += 1.0
		}
	}
	return total
}

// totalOTHours sums checkout-derived overtime plus the payable hours of each
// reviewed overtime session.
func totalOTHours(records []attendance.Record) float64 {
	total := 0.0
	for _, record := range records {
		total += record.OvertimeHours
		for _, session := range record.OTSessions {
			total += session.PayableHours()
		}
	}
	return math.Round(total*100) / 100
}

// Generate implements payroll.Service.
func (s *ServiceImpl) Generate(ctx context.Context, year int, month time.Month, force bool, actorID string) (payroll.GenerationResult, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	pending, err := s.recordRepo.ListPendingInPeriod(ctx, from, to)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to check pending records: %w", err)
	}

	var excluded []payroll.ExcludedDay
	if len(pending) > 0 {
		if !force {
			ids := make([]string, 0, len(pending))
			for _, record := range pending {
				ids = append(ids, record.ID)
			}
			return payroll.GenerationResult{}, &payroll.PendingReviewError{RecordIDs: ids}
		}

		actor, err := s.directory.GetByID(ctx, actorID)
		if err != nil {
			return payroll.GenerationResult{}, fmt.Errorf("failed to get actor: %w", err)
		}
		if actor.Role != employee.RoleMaster {
			return payroll.GenerationResult{}, payroll.ErrForceNotPermitted
		}

		for _, record := range pending {
			excluded = append(excluded, payroll.ExcludedDay{
				EmployeeID: record.EmployeeID,
				RecordID:   record.ID,
				Date:       record.Date,
				Reason:     "pending admin review",
			})
		}
	}

	employees, err := s.directory.ListActive(ctx)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	summaries := make([]payroll.EmployeeSummary, len(employees))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(generateConcurrency)
	for i, emp := range employees {
		i, emp := i, emp // per-iteration copies; required while go.mod targets go < 1.22
		group.Go(func() error {
			summary, err := s.summarize(groupCtx, emp, year, month, from, to, settings)
			if err != nil {
				return fmt.Errorf("failed to summarize employee %s: %w", emp.ID, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return payroll.GenerationResult{}, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})

	return payroll.GenerationResult{
		Year:         year,
		Month:        month,
		Forced:       force,
		Summaries:    summaries,
		ExcludedDays: excluded,
	}, nil
}

func (s *ServiceImpl) summarize(ctx context.Context, emp employee.Employee, year int, month time.Month, from, to time.Time, settings company.Settings) (payroll.EmployeeSummary, error) {
	records, err := s.recordRepo.ListRange(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.EmployeeSummary{}, fmt.Errorf("failed to list records: %w", err)
	}

	records, err = s.EnrichWithStatutoryDays(ctx, emp.ID, from, to, records)
	if err != nil {
		return payroll.EmployeeSummary{}, err
	}

	timing, err := s.timings.Get(ctx, emp.Department)
	if err != nil {
		return payroll.EmployeeSummary{}, fmt.Errorf("failed to get department timing: %w", err)
	}

	weighted := weightedPayableDays(records)
	otHours := totalOTHours(records)

	workingDays := decimal.NewFromInt(int64(settings.StandardWorkingDays))
	dailyRate := emp.MonthlyComponents.DivRound(workingDays, 2)
	earned := dailyRate.Mul(decimal.NewFromFloat(weighted)).Round(2)

	hourlyRate := dailyRate.DivRound(decimal.NewFromInt(int64(timing.WorkingHours)), 4)
	otAmount := hourlyRate.Mul(settings.DefaultOTRate).Mul(decimal.NewFromFloat(otHours)).Round(2)

	return payroll.EmployeeSummary{
		EmployeeID:          emp.ID,
		EmployeeName:        emp.FullName,
		Department:          emp.Department,
		Year:                year,
		Month:               month,
		WeightedPayableDays: weighted,
		TotalOTHours:        otHours,
		DailyRate:           dailyRate,
		EarnedAmount:        earned,
		OTAmount:            otAmount,
		TotalAmount:         earned.Add(otAmount),
	}, nil
}

// Report implements payroll.Service.
func (s *ServiceImpl) Report(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.RecordResponse, error) {
	records, err := s.recordRepo.ListRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records, err = s.EnrichWithStatutoryDays(ctx, employeeID, from, to, records)
	if err != nil {
		return nil, err
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, record := range records {
		totalOT := 0.0
		for _, session := range record.OTSessions {
			totalOT += session.PayableHours()
		}
		resp := attendance.RecordResponse{
			ID:                record.ID,
			EmployeeID:        record.EmployeeID,
			EmployeeName:      record.EmployeeName,
			Date:              record.Date.Format("2006-01-02"),
			WorkingHours:      record.WorkingHours,
			OvertimeHours:     record.OvertimeHours,
			Status:            string(record.Status),
			IsLate:            record.IsLate,
			LateMinutes:       record.LateMinutes,
			AutoCorrected:     record.AutoCorrected,
			AdminReviewStatus: string(record.AdminReviewStatus),
			OTSessionCount:    len(record.OTSessions),
			TotalOTHours:      math.Round(totalOT*100) / 100,
		}
		if record.CheckInTime != nil {
			v := record.CheckInTime.UTC().Format("2006-01-02 15:04:05")
			resp.CheckInTime = &v
		}
		if record.CheckOutTime != nil {
			v := record.CheckOutTime.UTC().Format("2006-01-02 15:04:05")
			resp.CheckOutTime = &v
		}
		out = append(out, resp)
	}
	return out, nil
}

var _ payroll.Service = (*ServiceImpl)(nil)
