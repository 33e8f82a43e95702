package cron

import (
	"context"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/attendance"
)

// AttendanceJobs contains attendance-related cron jobs
type AttendanceJobs struct {
	recordService attendance.RecordService
	interval      time.Duration
}

// NewAttendanceJobs creates attendance cron jobs
func NewAttendanceJobs(recordService attendance.RecordService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		recordService: recordService,
		interval:      interval,
	}
}

// RegisterJobs registers all attendance-related cron jobs
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_checkout_overdue_records", j.interval, j.AutoCheckoutOverdueRecords)
}

// AutoCheckoutOverdueRecords force-closes records whose owner never checked
// out, once the shift end plus the grace window has passed.
func (j *AttendanceJobs) AutoCheckoutOverdueRecords(ctx context.Context) error {
	_, err := j.recordService.AutoCheckoutSweep(ctx, time.Now().UTC())
	return err
}
