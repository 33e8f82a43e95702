package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/attendly/timepay-engine-go/internal/pkg/ratelimit"
)

// MaintenanceJobs contains housekeeping cron jobs
type MaintenanceJobs struct {
	limiter *ratelimit.PerUserLimiter
}

// NewMaintenanceJobs creates housekeeping cron jobs
func NewMaintenanceJobs(limiter *ratelimit.PerUserLimiter) *MaintenanceJobs {
	return &MaintenanceJobs{limiter: limiter}
}

// RegisterJobs registers all housekeeping cron jobs
func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("evict_idle_rate_limiters", 10*time.Minute, j.EvictIdleRateLimiters)
}

// EvictIdleRateLimiters drops per-user limiter buckets that went idle.
func (j *MaintenanceJobs) EvictIdleRateLimiters(ctx context.Context) error {
	if evicted := j.limiter.Evict(); evicted > 0 {
		slog.Info("Cron: evicted idle rate limiters", "count", evicted)
	}
	return nil
}
