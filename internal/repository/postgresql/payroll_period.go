package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/payrollperiod"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollPeriodRepository struct {
	db *database.DB
}

func NewPayrollPeriodRepository(db *database.DB) payrollperiod.LockRepository {
	return &payrollPeriodRepository{db: db}
}

// Get implements payrollperiod.LockRepository.
func (p *payrollPeriodRepository) Get(ctx context.Context, year int, month time.Month) (*payrollperiod.Lock, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT year, month, status,
			   locked_by, locked_at, unlocked_by, unlocked_at, unlock_reason,
			   created_at, updated_at
		FROM payroll_period_locks
		WHERE year = $1 AND month = $2
	`

	var lock payrollperiod.Lock
	var monthNum int
	err := q.QueryRow(ctx, query, year, int(month)).Scan(
		&lock.Year, &monthNum, &lock.Status,
		&lock.LockedBy, &lock.LockedAt, &lock.UnlockedBy, &lock.UnlockedAt, &lock.UnlockReason,
		&lock.CreatedAt, &lock.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll period lock: %w", err)
	}
	lock.Month = time.Month(monthNum)

	return &lock, nil
}

// Upsert implements payrollperiod.LockRepository.
func (p *payrollPeriodRepository) Upsert(ctx context.Context, lock payrollperiod.Lock) (payrollperiod.Lock, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payroll_period_locks (
			year, month, status,
			locked_by, locked_at, unlocked_by, unlocked_at, unlock_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, month) DO UPDATE SET
			status = EXCLUDED.status,
			locked_by = EXCLUDED.locked_by,
			locked_at = EXCLUDED.locked_at,
			unlocked_by = EXCLUDED.unlocked_by,
			unlocked_at = EXCLUDED.unlocked_at,
			unlock_reason = EXCLUDED.unlock_reason,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lock.Year,
		int(lock.Month),
		lock.Status,
		lock.LockedBy,
		lock.LockedAt,
		lock.UnlockedBy,
		lock.UnlockedAt,
		lock.UnlockReason,
	).Scan(&lock.CreatedAt, &lock.UpdatedAt)
	if err != nil {
		return payrollperiod.Lock{}, fmt.Errorf("failed to upsert payroll period lock: %w", err)
	}

	return lock, nil
}
