package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// SettingsService handles predictor configuration for a user
type SettingsService struct {
	settingsRepo domain.UserSettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.UserSettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings retrieves the user's predictor settings
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	return s.settingsRepo.Get(ctx, userID)
}

// UpdateSettingsInput holds the input for updating user settings
type UpdateSettingsInput struct {
	ExpectedMonthlyNetIncome int64
	IncomeFrequencyDays      int
	AnalyzeStart             time.Time
	PredictEnd               time.Time
}

// UpdateSettings validates and stores the user's predictor settings. The
// analysis window must start in the past and the prediction window must end
// in the future.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, input UpdateSettingsInput) (*domain.UserSettings, error) {
	if input.ExpectedMonthlyNetIncome < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.IncomeFrequencyDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if input.AnalyzeStart.After(now) {
		return nil, domain.ErrInvalidInput
	}
	if input.PredictEnd.Before(now) {
		return nil, domain.ErrInvalidInput
	}

	return s.settingsRepo.Upsert(ctx, &domain.UserSettings{
		UserID:                   userID,
		ExpectedMonthlyNetIncome: input.ExpectedMonthlyNetIncome,
		IncomeFrequencyDays:      input.IncomeFrequencyDays,
		AnalyzeStart:             input.AnalyzeStart,
		PredictEnd:               input.PredictEnd,
	})
}
