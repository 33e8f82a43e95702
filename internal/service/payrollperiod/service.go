package payrollperiod

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/validator"
)

type LockServiceImpl struct {
	repo payrollperiod.LockRepository
}

func NewLockService(repo payrollperiod.LockRepository) payrollperiod.LockService {
	return &LockServiceImpl{repo: repo}
}

// AssertUnlocked implements payrollperiod.LockService.
func (s *LockServiceImpl) AssertUnlocked(ctx context.Context, date time.Time) error {
	u := date.UTC()
	lock, err := s.repo.Get(ctx, u.Year(), u.Month())
	if err != nil {
		return fmt.Errorf("failed to check payroll period lock: %w", err)
	}
	if lock != nil && lock.Status == payrollperiod.StatusLocked {
		return payrollperiod.ErrPeriodLocked
	}
	return nil
}

// Get implements payrollperiod.LockService.
func (s *LockServiceImpl) Get(ctx context.Context, year int, month time.Month) (payrollperiod.Lock, error) {
	lock, err := s.repo.Get(ctx, year, month)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to get payroll period lock: %w", err)
	}
	if lock == nil {
		return payrollperiod.Lock{Year: year, Month: month, Status: payrollperiod.StatusOpen}, nil
	}
	return *lock, nil
}

// Lock implements payrollperiod.LockService.
func (s *LockServiceImpl) Lock(ctx context.Context, year int, month time.Month, actorID string) (payrollperiod.Lock, error) {
	existing, err := s.repo.Get(ctx, year, month)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to get payroll period lock: %w", err)
	}
	if existing != nil && existing.Status == payrollperiod.StatusLocked {
		return payrollperiod.Lock{}, payrollperiod.ErrPeriodAlreadyLocked
	}

	now := time.Now().UTC()
	lock := payrollperiod.Lock{
		Year:     year,
		Month:    month,
		Status:   payrollperiod.StatusLocked,
		LockedBy: &actorID,
		LockedAt: &now,
	}
	if existing != nil {
		lock.CreatedAt = existing.CreatedAt
	}

	saved, err := s.repo.Upsert(ctx, lock)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to lock payroll period: %w", err)
	}

	slog.Info("Payroll period locked", "year", year, "month", month, "actor", actorID)
	return saved, nil
}

// Unlock implements payrollperiod.LockService.
func (s *LockServiceImpl) Unlock(ctx context.Context, year int, month time.Month, actorID, reason string) (payrollperiod.Lock, error) {
	if !validator.HasMinLength(reason, payrollperiod.MinUnlockReasonLength) {
		return payrollperiod.Lock{}, payrollperiod.ErrUnlockReasonTooShort
	}

	existing, err := s.repo.Get(ctx, year, month)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to get payroll period lock: %w", err)
	}
	if existing == nil || existing.Status != payrollperiod.StatusLocked {
		return payrollperiod.Lock{}, payrollperiod.ErrPeriodNotLocked
	}

	now := time.Now().UTC()
	existing.Status = payrollperiod.StatusOpen
	existing.UnlockedBy = &actorID
	existing.UnlockedAt = &now
	existing.UnlockReason = &reason

	saved, err := s.repo.Upsert(ctx, *existing)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to unlock payroll period: %w", err)
	}

	// The unlock reason is the audit trail for retroactive pay mutations.
	slog.Warn("Payroll period unlocked", "year", year, "month", month, "actor", actorID, "reason", reason)
	return saved, nil
}
