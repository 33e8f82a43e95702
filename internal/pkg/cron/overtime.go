package cron

import (
	"context"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/overtime"
)

// OvertimeJobs contains overtime-related cron jobs
type OvertimeJobs struct {
	sessionService overtime.SessionService
	interval       time.Duration
}

// NewOvertimeJobs creates overtime cron jobs
func NewOvertimeJobs(sessionService overtime.SessionService, interval time.Duration) *OvertimeJobs {
	return &OvertimeJobs{
		sessionService: sessionService,
		interval:       interval,
	}
}

// RegisterJobs registers all overtime-related cron jobs
func (j *OvertimeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_ot_sessions", j.interval, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions closes in-progress sessions left open past the
// configured age and parks them for admin review.
func (j *OvertimeJobs) AutoCloseStaleSessions(ctx context.Context) error {
	_, err := j.sessionService.AutoCloseSweep(ctx, time.Now().UTC())
	return err
}
