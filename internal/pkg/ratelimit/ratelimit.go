package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerUserLimiter throttles rapid double-submission of attendance and overtime
// actions: one token bucket per user, evicted after sitting idle.
type PerUserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter

	limit rate.Limit
	burst int
	ttl   time.Duration

	now func() time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPerUserLimiter allows one event per interval with the given burst.
func NewPerUserLimiter(interval time.Duration, burst int, ttl time.Duration) *PerUserLimiter {
	return &PerUserLimiter{
		limiters: make(map[string]*userLimiter),
		limit:    rate.Every(interval),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow reports whether the user may proceed now.
func (l *PerUserLimiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = l.now()
	return ul.limiter.Allow()
}

// Evict drops limiters idle for longer than the TTL. Called periodically by
// the scheduler so the map does not grow with every user ever seen.
func (l *PerUserLimiter) Evict() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	evicted := 0
	for id, ul := range l.limiters {
		if ul.lastSeen.Before(cutoff) {
			delete(l.limiters, id)
			evicted++
		}
	}
	return evicted
}
