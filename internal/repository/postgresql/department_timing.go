package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentTimingRepository struct {
	db *database.DB
}

func NewDepartmentTimingRepository(db *database.DB) department.TimingRepository {
	return &departmentTimingRepository{db: db}
}

// GetByDepartment implements department.TimingRepository.
func (d *departmentTimingRepository) GetByDepartment(ctx context.Context, dept string) (department.Timing, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT department, check_in_time, check_out_time, working_hours,
			   overtime_threshold_minutes, late_threshold_minutes,
			   auto_checkout_grace_minutes, weekly_off_days
		FROM department_timings
		WHERE department = $1
	`

	var timing department.Timing
	var weeklyOff []int
	err := q.QueryRow(ctx, query, dept).Scan(
		&timing.Department, &timing.CheckInTime, &timing.CheckOutTime, &timing.WorkingHours,
		&timing.OvertimeThresholdMinutes, &timing.LateThresholdMinutes,
		&timing.AutoCheckoutGraceMinutes, &weeklyOff,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Timing{}, department.ErrTimingNotFound
		}
		return department.Timing{}, fmt.Errorf("failed to get department timing: %w", err)
	}

	timing.WeeklyOffDays = make([]time.Weekday, 0, len(weeklyOff))
	for _, day := range weeklyOff {
		timing.WeeklyOffDays = append(timing.WeeklyOffDays, time.Weekday(day))
	}
	return timing, nil
}

// Upsert implements department.TimingRepository.
func (d *departmentTimingRepository) Upsert(ctx context.Context, timing department.Timing) (department.Timing, error) {
	q := GetQuerier(ctx, d.db)

	weeklyOff := make([]int, 0, len(timing.WeeklyOffDays))
	for _, day := range timing.WeeklyOffDays {
		weeklyOff = append(weeklyOff, int(day))
	}

	query := `
		INSERT INTO department_timings (
			department, check_in_time, check_out_time, working_hours,
			overtime_threshold_minutes, late_threshold_minutes,
			auto_checkout_grace_minutes, weekly_off_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (department) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			working_hours = EXCLUDED.working_hours,
			overtime_threshold_minutes = EXCLUDED.overtime_threshold_minutes,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			auto_checkout_grace_minutes = EXCLUDED.auto_checkout_grace_minutes,
			weekly_off_days = EXCLUDED.weekly_off_days,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		timing.Department,
		timing.CheckInTime,
		timing.CheckOutTime,
		timing.WorkingHours,
		timing.OvertimeThresholdMinutes,
		timing.LateThresholdMinutes,
		timing.AutoCheckoutGraceMinutes,
		weeklyOff,
	)
	if err != nil {
		return department.Timing{}, fmt.Errorf("failed to upsert department timing: %w", err)
	}
	return timing, nil
}
