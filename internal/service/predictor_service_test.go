package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/testutil"
)

type predictorFixture struct {
	userID  uuid.UUID
	root    *domain.Budget
	food    *domain.Budget
	savings *domain.Budget
	doritos *domain.Tag

	budgetRepo      *testutil.MockBudgetRepository
	tagRepo         *testutil.MockTagRepository
	transactionRepo *testutil.MockTransactionRepository
	settingsRepo    *testutil.MockUserSettingsRepository
	svc             *PredictorService
}

func newPredictorFixture(settings domain.UserSettings) *predictorFixture {
	f := &predictorFixture{userID: uuid.New()}
	f.budgetRepo = testutil.NewMockBudgetRepository()
	f.tagRepo = testutil.NewMockTagRepository()
	f.transactionRepo = testutil.NewMockTransactionRepository(f.budgetRepo)
	f.settingsRepo = testutil.NewMockUserSettingsRepository()

	f.root = f.budgetRepo.AddBudget(&domain.Budget{UserID: f.userID, Name: domain.RootBudgetName, IsNode: true})
	f.food = f.budgetRepo.AddBudget(&domain.Budget{UserID: f.userID, Name: "food", ParentID: &f.root.ID})
	f.savings = f.budgetRepo.AddBudget(&domain.Budget{UserID: f.userID, Name: "savings", ParentID: &f.root.ID, MonthlyAllocation: 200000})
	f.doritos = f.tagRepo.AddTag(&domain.Tag{UserID: f.userID, Name: "doritos"})

	settings.UserID = f.userID
	f.settingsRepo.AddSettings(&settings)

	f.svc = NewPredictorService(f.budgetRepo, f.tagRepo, f.transactionRepo, f.settingsRepo)
	// Pin the dice so sampling is deterministic
	f.svc.randFloat = func() float64 { return 0 }
	return f
}

// seedSample adds five tagged food transactions over a five day window, one
// per day, so the fitted model has a daily rate of exactly 1 and food odds 1.
func (f *predictorFixture) seedSample() domain.DateRange {
	window := domain.DateRange{Start: date(2024, 12, 1), End: date(2024, 12, 6)}
	for day := 0; day < 5; day++ {
		f.transactionRepo.AddTransaction(&domain.Transaction{
			BudgetID: f.food.ID,
			Amount:   -4000,
			Date:     window.Start.AddDate(0, 0, day),
			TagIDs:   []uuid.UUID{f.doritos.ID},
		})
	}
	return window
}

func TestPredictorSamplesOutcomes(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{IncomeFrequencyDays: 0})
	analyze := f.seedSample()
	predict := domain.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 3)}

	created, err := f.svc.Run(context.Background(), f.userID, analyze, predict)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for i, tx := range created {
		assert.Equal(t, f.food.ID, tx.BudgetID)
		assert.Equal(t, domain.DescriptionPrediction, tx.Description)
		assert.Equal(t, int64(-4000), tx.Amount)
		assert.Equal(t, predict.Start.AddDate(0, 0, i), tx.Date)
		assert.True(t, tx.Prediction)
		assert.False(t, tx.Income)
		assert.Equal(t, []uuid.UUID{f.doritos.ID}, tx.TagIDs)
	}
}

func TestPredictorEmptyAnalysisWindowProducesIncomeOnly(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{
		ExpectedMonthlyNetIncome: 310000,
		IncomeFrequencyDays:      14,
	})
	analyze := domain.DateRange{Start: date(2020, 1, 1), End: date(2020, 2, 1)}
	predict := domain.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 29)}

	created, err := f.svc.Run(context.Background(), f.userID, analyze, predict)
	require.NoError(t, err)

	var paycheques, allocations []*domain.Transaction
	for _, tx := range created {
		require.True(t, tx.Prediction)
		require.True(t, tx.Income)
		if tx.Description == domain.TagPaycheque {
			paycheques = append(paycheques, tx)
		} else {
			allocations = append(allocations, tx)
		}
	}

	// Paycheques land every 14 days: Jan 1, 15, and 29
	require.Len(t, paycheques, 3)
	for i, tx := range paycheques {
		assert.Equal(t, f.root.ID, tx.BudgetID)
		// 3100.00 monthly over 31 days at a 14 day frequency
		assert.Equal(t, int64(140000), tx.Amount)
		assert.Equal(t, predict.Start.AddDate(0, 0, i*14), tx.Date)
	}

	// Allocation pairs land every 28 days: Jan 1 and 29, credit on the
	// budget and matching debit on the root.
	require.Len(t, allocations, 4)
	for _, tx := range allocations {
		switch tx.BudgetID {
		case f.savings.ID:
			assert.Equal(t, "Monthly Income", tx.Description)
			assert.Equal(t, int64(200000), tx.Amount)
		case f.root.ID:
			assert.Equal(t, "Monthly Income: savings", tx.Description)
			assert.Equal(t, int64(-200000), tx.Amount)
		default:
			t.Fatalf("allocation on unexpected budget %s", tx.BudgetID)
		}
	}

	// The run provisions the reserved tags
	_, err = f.tagRepo.GetByName(context.Background(), f.userID, domain.TagPaycheque)
	assert.NoError(t, err)
	_, err = f.tagRepo.GetByName(context.Background(), f.userID, domain.TagIncome)
	assert.NoError(t, err)
}

func TestPredictorPurgesPreviousRun(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{IncomeFrequencyDays: 0})
	analyze := f.seedSample()
	predict := domain.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 3)}

	// A stale prediction from an earlier run
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -1, Date: date(2024, 12, 20), Prediction: true,
	})

	ctx := context.Background()
	_, err := f.svc.Run(ctx, f.userID, analyze, predict)
	require.NoError(t, err)
	_, err = f.svc.Run(ctx, f.userID, analyze, predict)
	require.NoError(t, err)

	prediction := true
	count, err := f.transactionRepo.CountByUser(ctx, f.userID, &domain.TransactionFilter{Prediction: &prediction})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Real transactions survive every run
	notPrediction := false
	count, err = f.transactionRepo.CountByUser(ctx, f.userID, &domain.TransactionFilter{Prediction: &notPrediction})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestPredictorRejectsOversizedWindow(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{IncomeFrequencyDays: 14})

	analyze := domain.DateRange{Start: date(2024, 1, 1), End: date(2024, 12, 31)}
	predict := domain.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 1).AddDate(0, 0, MaxPredictionDays+1)}

	_, err := f.svc.Run(context.Background(), f.userID, analyze, predict)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPredictorRunFromSettings(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{
		ExpectedMonthlyNetIncome: 310000,
		IncomeFrequencyDays:      14,
		AnalyzeStart:             date(2024, 12, 1),
		PredictEnd:               date(2025, 1, 16),
	})

	now := date(2025, 1, 1)
	created, err := f.svc.RunFromSettings(context.Background(), f.userID, now)
	require.NoError(t, err)

	// Prediction window is Jan 2 through Jan 16: paycheques on Jan 2 and 16,
	// one allocation pair on Jan 2.
	require.Len(t, created, 4)
	for _, tx := range created {
		assert.False(t, tx.Date.Before(date(2025, 1, 2)))
		assert.False(t, tx.Date.After(date(2025, 1, 16)))
	}
}

func TestPredictorRunFromSettingsWithoutSettings(t *testing.T) {
	f := newPredictorFixture(domain.UserSettings{IncomeFrequencyDays: 14})

	_, err := f.svc.RunFromSettings(context.Background(), uuid.New(), date(2025, 1, 1))
	assert.ErrorIs(t, err, domain.ErrSettingsNotFound)
}
