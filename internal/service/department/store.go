package department

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/department"
	"github.com/attendly/timepay-engine-go/internal/fixtures"
	"github.com/attendly/timepay-engine-go/internal/pkg/timeutil"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

// cacheTTL bounds staleness of a cached timing. The cache is per-process;
// across multiple instances reads tolerate up to this much staleness after a
// write on another instance.
const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	timing   department.ResolvedTiming
	loadedAt time.Time
}

type TimingStoreImpl struct {
	repo department.TimingRepository

	mu    sync.RWMutex
	cache map[string]cacheEntry

	now func() time.Time
}

func NewTimingStore(repo department.TimingRepository) *TimingStoreImpl {
	return &TimingStoreImpl{
		repo:  repo,
		cache: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

var _ department.TimingStore = (*TimingStoreImpl)(nil)

// Get implements department.TimingStore.
func (s *TimingStoreImpl) Get(ctx context.Context, dept string) (department.ResolvedTiming, error) {
	s.mu.RLock()
	entry, ok := s.cache[dept]
	s.mu.RUnlock()

	if ok && s.now().Sub(entry.loadedAt) < cacheTTL {
		return entry.timing, nil
	}

	timing, err := s.repo.GetByDepartment(ctx, dept)
	if err != nil {
		if !errors.Is(err, department.ErrTimingNotFound) {
			return department.ResolvedTiming{}, fmt.Errorf("failed to load department timing: %w", err)
		}
		timing = fixtures.DefaultTiming(dept)
	}

	resolved, err := resolve(timing)
	if err != nil {
		// A malformed configured row must fail the read, never silently
		// fall back to a guessed boundary.
		return department.ResolvedTiming{}, err
	}

	s.mu.Lock()
	s.cache[dept] = cacheEntry{timing: resolved, loadedAt: s.now()}
	s.mu.Unlock()

	return resolved, nil
}

// Update implements department.TimingStore.
func (s *TimingStoreImpl) Update(ctx context.Context, timing department.Timing) (department.ResolvedTiming, error) {
	if err := validateTiming(timing); err != nil {
		return department.ResolvedTiming{}, err
	}
	if _, err := resolve(timing); err != nil {
		return department.ResolvedTiming{}, err
	}

	saved, err := s.repo.Upsert(ctx, timing)
	if err != nil {
		return department.ResolvedTiming{}, fmt.Errorf("failed to save department timing: %w", err)
	}

	// Invalidate before returning so the next read on this instance cannot
	// serve the old row.
	s.Invalidate(timing.Department)

	resolved, err := resolve(saved)
	if err != nil {
		return department.ResolvedTiming{}, err
	}
	return resolved, nil
}

// Invalidate implements department.TimingStore.
func (s *TimingStoreImpl) Invalidate(dept string) {
	s.mu.Lock()
	delete(s.cache, dept)
	s.mu.Unlock()
}

// InvalidateAll implements department.TimingStore.
func (s *TimingStoreImpl) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

func resolve(timing department.Timing) (department.ResolvedTiming, error) {
	checkIn, err := timeutil.ParseShiftTime(timing.CheckInTime)
	if err != nil {
		return department.ResolvedTiming{}, fmt.Errorf("%w: check-in time for %q: %v",
			department.ErrInvalidTiming, timing.Department, err)
	}
	checkOut, err := timeutil.ParseShiftTime(timing.CheckOutTime)
	if err != nil {
		return department.ResolvedTiming{}, fmt.Errorf("%w: check-out time for %q: %v",
			department.ErrInvalidTiming, timing.Department, err)
	}
	return department.ResolvedTiming{
		Timing:   timing,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}, nil
}

func validateTiming(timing department.Timing) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(timing.Department) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department is required",
		})
	}
	if timing.WorkingHours < 1 || timing.WorkingHours > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "working_hours",
			Message: "working_hours must be between 1 and 24",
		})
	}
	if timing.OvertimeThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_threshold_minutes",
			Message: "overtime_threshold_minutes must not be negative",
		})
	}
	if timing.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold_minutes",
			Message: "late_threshold_minutes must not be negative",
		})
	}
	if timing.AutoCheckoutGraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "auto_checkout_grace_minutes",
			Message: "auto_checkout_grace_minutes must not be negative",
		})
	}
	if len(timing.WeeklyOffDays) > 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_off_days",
			Message: "weekly_off_days cannot cover the whole week",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
