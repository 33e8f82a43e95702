package department

import (
	"context"

	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
)

// ResolvedTiming is a Timing with its shift boundary strings already parsed.
// Services consume this form so a malformed configuration string is caught
// once, at resolution, and never guessed around.
type ResolvedTiming struct {
	Timing
	CheckIn  timeutil.TimeOfDay
	CheckOut timeutil.TimeOfDay
}

// TimingStore resolves and caches department shift configuration.
type TimingStore interface {
	// Get returns the department's timing, from cache when fresh. A
	// department with no configured row resolves to the hardcoded default;
	// the engine never operates with an undefined shift boundary.
	Get(ctx context.Context, dept string) (ResolvedTiming, error)

	// Update validates and persists a department's timing, then invalidates
	// the cache entry before returning
	Update(ctx context.Context, timing Timing) (ResolvedTiming, error)

	// Invalidate drops one department's cache entry
	Invalidate(dept string)

	// InvalidateAll drops the whole cache
	InvalidateAll()
}
