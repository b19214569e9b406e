package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/testutil"
)

func TestUpdateSettingsRoundTrip(t *testing.T) {
	svc := NewSettingsService(testutil.NewMockUserSettingsRepository())
	userID := uuid.New()
	ctx := context.Background()

	input := UpdateSettingsInput{
		ExpectedMonthlyNetIncome: 310000,
		IncomeFrequencyDays:      14,
		AnalyzeStart:             time.Now().AddDate(0, -6, 0),
		PredictEnd:               time.Now().AddDate(0, 6, 0),
	}
	_, err := svc.UpdateSettings(ctx, userID, input)
	require.NoError(t, err)

	settings, err := svc.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(310000), settings.ExpectedMonthlyNetIncome)
	assert.Equal(t, 14, settings.IncomeFrequencyDays)
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc := NewSettingsService(testutil.NewMockUserSettingsRepository())
	userID := uuid.New()
	ctx := context.Background()

	valid := UpdateSettingsInput{
		ExpectedMonthlyNetIncome: 310000,
		IncomeFrequencyDays:      14,
		AnalyzeStart:             time.Now().AddDate(0, -6, 0),
		PredictEnd:               time.Now().AddDate(0, 6, 0),
	}

	negative := valid
	negative.ExpectedMonthlyNetIncome = -1
	_, err := svc.UpdateSettings(ctx, userID, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zeroFrequency := valid
	zeroFrequency.IncomeFrequencyDays = 0
	_, err = svc.UpdateSettings(ctx, userID, zeroFrequency)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	futureAnalyze := valid
	futureAnalyze.AnalyzeStart = time.Now().AddDate(0, 1, 0)
	_, err = svc.UpdateSettings(ctx, userID, futureAnalyze)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pastPredict := valid
	pastPredict.PredictEnd = time.Now().AddDate(0, -1, 0)
	_, err = svc.UpdateSettings(ctx, userID, pastPredict)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSettingsUnconfigured(t *testing.T) {
	svc := NewSettingsService(testutil.NewMockUserSettingsRepository())

	_, err := svc.GetSettings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSettingsNotFound)
}
