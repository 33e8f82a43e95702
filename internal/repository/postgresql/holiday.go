package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/holiday"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

// NewHolidayRepository returns a holiday.Service backed by the holidays
// table.
func NewHolidayRepository(db *database.DB) holiday.Service {
	return &holidayRepository{db: db}
}

// IsHoliday implements holiday.Service.
func (h *holidayRepository) IsHoliday(ctx context.Context, date time.Time, dept string) (holiday.Check, error) {
	holidays, err := h.ListRange(ctx, date, date, dept)
	if err != nil {
		return holiday.Check{}, err
	}
	if len(holidays) == 0 {
		return holiday.Check{}, nil
	}
	return holiday.Check{IsHoliday: true, Holiday: &holidays[0]}, nil
}

// ListRange implements holiday.Service. An empty departments array means the
// holiday is company-wide.
func (h *holidayRepository) ListRange(ctx context.Context, from, to time.Time, dept string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, name, date, allow_ot, departments
		FROM holidays
		WHERE date >= $1
		  AND date <= $2
		  AND (departments = '{}' OR $3 = ANY(departments))
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to, dept)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var hd holiday.Holiday
		if err := rows.Scan(&hd.ID, &hd.Name, &hd.Date, &hd.AllowOT, &hd.Departments); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}
