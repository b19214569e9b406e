package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// UserSettingsRepository implements domain.UserSettingsRepository using
// PostgreSQL.
type UserSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewUserSettingsRepository creates a new UserSettingsRepository
func NewUserSettingsRepository(pool *pgxpool.Pool) *UserSettingsRepository {
	return &UserSettingsRepository{pool: pool}
}

const userSettingsColumns = `user_id, expected_monthly_net_income, income_frequency_days, analyze_start, predict_end`

// Get retrieves the settings row for a user
func (r *UserSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userSettingsColumns+` FROM user_settings WHERE user_id = $1`,
		pgUUID(userID),
	)
	settings, err := scanUserSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

// Upsert inserts or replaces the settings row for a user
func (r *UserSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, expected_monthly_net_income, income_frequency_days, analyze_start, predict_end)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			expected_monthly_net_income = EXCLUDED.expected_monthly_net_income,
			income_frequency_days = EXCLUDED.income_frequency_days,
			analyze_start = EXCLUDED.analyze_start,
			predict_end = EXCLUDED.predict_end
		RETURNING `+userSettingsColumns,
		pgUUID(settings.UserID), settings.ExpectedMonthlyNetIncome, settings.IncomeFrequencyDays,
		pgDate(settings.AnalyzeStart), pgDate(settings.PredictEnd),
	)
	return scanUserSettings(row)
}

// ListAll retrieves every user's settings row. Used by the predictor worker
// to regenerate predictions for all users.
func (r *UserSettingsRepository) ListAll(ctx context.Context) ([]*domain.UserSettings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userSettingsColumns+` FROM user_settings ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*domain.UserSettings
	for rows.Next() {
		settings, err := scanUserSettings(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, settings)
	}
	return all, rows.Err()
}

func scanUserSettings(row pgx.Row) (*domain.UserSettings, error) {
	var (
		userID                  pgtype.UUID
		analyzeStart, predictEnd pgtype.Date
		settings                domain.UserSettings
	)
	err := row.Scan(&userID, &settings.ExpectedMonthlyNetIncome, &settings.IncomeFrequencyDays, &analyzeStart, &predictEnd)
	if err != nil {
		return nil, err
	}
	settings.UserID = fromPgUUID(userID)
	settings.AnalyzeStart = analyzeStart.Time
	settings.PredictEnd = predictEnd.Time
	return &settings, nil
}
