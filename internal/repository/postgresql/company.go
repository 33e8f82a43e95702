package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/timepay-engine-go/internal/domain/company"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type companySettingsRepository struct {
	db *database.DB
}

// NewCompanySettingsRepository returns a company.SettingsService backed by
// the single-row company_settings table.
func NewCompanySettingsRepository(db *database.DB) company.SettingsService {
	return &companySettingsRepository{db: db}
}

// Get implements company.SettingsService.
func (c *companySettingsRepository) Get(ctx context.Context) (company.Settings, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT default_weekend_days, daily_ot_cap_hours, default_ot_rate, standard_working_days
		FROM company_settings
		LIMIT 1
	`

	var settings company.Settings
	var weekendDays []int
	err := q.QueryRow(ctx, query).Scan(
		&weekendDays, &settings.DailyOTCapHours, &settings.DefaultOTRate, &settings.StandardWorkingDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Sensible defaults until the row is seeded.
			return company.Settings{
				DefaultWeekendDays:  []time.Weekday{time.Saturday, time.Sunday},
				DailyOTCapHours:     4,
				DefaultOTRate:       decimal.NewFromFloat(1.5),
				StandardWorkingDays: 26,
			}, nil
		}
		return company.Settings{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	settings.DefaultWeekendDays = make([]time.Weekday, 0, len(weekendDays))
	for _, day := range weekendDays {
		settings.DefaultWeekendDays = append(settings.DefaultWeekendDays, time.Weekday(day))
	}
	return settings, nil
}
