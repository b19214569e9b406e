package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserSettings configures the predictor for one user. The analysis window is
// AnalyzeStart through now; the prediction window is tomorrow through
// PredictEnd. ExpectedMonthlyNetIncome is in cents.
type UserSettings struct {
	UserID                   uuid.UUID `json:"userId"`
	ExpectedMonthlyNetIncome int64     `json:"expectedMonthlyNetIncome"`
	IncomeFrequencyDays      int       `json:"incomeFrequencyDays"`
	AnalyzeStart             time.Time `json:"analyzeStart"`
	PredictEnd               time.Time `json:"predictEnd"`
}

type UserSettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	Upsert(ctx context.Context, settings *UserSettings) (*UserSettings, error)
	// ListAll returns settings for every user, for batch prediction runs.
	ListAll(ctx context.Context) ([]*UserSettings, error)
}
