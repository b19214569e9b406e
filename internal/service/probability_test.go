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

// probabilityFixture seeds a user with two leaf budgets and five sampled
// transactions over a ten day window: three on food (two tagged doritos at
// -40.00 and -35.00, one tagged groceries at -20.00) and two untagged on
// housing.
type probabilityFixture struct {
	userID    uuid.UUID
	food      *domain.Budget
	housing   *domain.Budget
	doritos   *domain.Tag
	groceries *domain.Tag
	window    domain.DateRange

	budgetRepo      *testutil.MockBudgetRepository
	tagRepo         *testutil.MockTagRepository
	transactionRepo *testutil.MockTransactionRepository
}

func newProbabilityFixture() *probabilityFixture {
	f := &probabilityFixture{userID: uuid.New()}
	f.budgetRepo = testutil.NewMockBudgetRepository()
	f.tagRepo = testutil.NewMockTagRepository()
	f.transactionRepo = testutil.NewMockTransactionRepository(f.budgetRepo)

	f.food = f.budgetRepo.AddBudget(&domain.Budget{UserID: f.userID, Name: "food"})
	f.housing = f.budgetRepo.AddBudget(&domain.Budget{UserID: f.userID, Name: "housing"})
	f.doritos = f.tagRepo.AddTag(&domain.Tag{UserID: f.userID, Name: "doritos"})
	f.groceries = f.tagRepo.AddTag(&domain.Tag{UserID: f.userID, Name: "groceries"})

	f.window = domain.DateRange{Start: date(2024, 12, 1), End: date(2024, 12, 11)}

	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -4000, Date: date(2024, 12, 2), TagIDs: []uuid.UUID{f.doritos.ID},
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -3500, Date: date(2024, 12, 4), TagIDs: []uuid.UUID{f.doritos.ID},
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -2000, Date: date(2024, 12, 6), TagIDs: []uuid.UUID{f.groceries.ID},
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.housing.ID, Amount: -90000, Date: date(2024, 12, 3),
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.housing.ID, Amount: -1500, Date: date(2024, 12, 9),
	})
	return f
}

func (f *probabilityFixture) build(t *testing.T) *ProbabilityModel {
	t.Helper()
	model, err := BuildProbabilityModel(context.Background(), f.budgetRepo, f.tagRepo, f.transactionRepo, f.userID, f.window)
	require.NoError(t, err)
	return model
}

func TestProbabilityModelBudgetOdds(t *testing.T) {
	f := newProbabilityFixture()
	model := f.build(t)

	assert.False(t, model.Empty())
	assert.InDelta(t, 0.6, model.BudgetOdds(f.food.ID), 1e-9)
	assert.InDelta(t, 0.4, model.BudgetOdds(f.housing.ID), 1e-9)
	assert.Zero(t, model.BudgetOdds(uuid.New()))
}

func TestProbabilityModelTransactionsPerDay(t *testing.T) {
	f := newProbabilityFixture()
	model := f.build(t)

	// 5 transactions over a 10 day window
	assert.InDelta(t, 0.5, model.TransactionsPerDay(), 1e-9)
}

func TestProbabilityModelTagOdds(t *testing.T) {
	f := newProbabilityFixture()
	model := f.build(t)

	assert.InDelta(t, 2.0/3.0, model.TagOdds(f.food.ID, f.doritos.ID), 1e-9)
	assert.InDelta(t, 1.0/3.0, model.TagOdds(f.food.ID, f.groceries.ID), 1e-9)
	assert.Zero(t, model.TagOdds(f.housing.ID, f.doritos.ID))
}

func TestProbabilityModelAverageAmount(t *testing.T) {
	f := newProbabilityFixture()
	model := f.build(t)

	// (-4000 + -3500) / 2 = -3750, no rounding needed
	assert.Equal(t, int64(-3750), model.AverageAmount(f.food.ID, f.doritos.ID))
	assert.Equal(t, int64(-2000), model.AverageAmount(f.food.ID, f.groceries.ID))
}

func TestProbabilityModelAverageRoundsHalfAwayFromZero(t *testing.T) {
	f := newProbabilityFixture()
	chips := f.tagRepo.AddTag(&domain.Tag{UserID: f.userID, Name: "chips"})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -4000, Date: date(2024, 12, 7), TagIDs: []uuid.UUID{chips.ID},
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -3501, Date: date(2024, 12, 8), TagIDs: []uuid.UUID{chips.ID},
	})
	model := f.build(t)

	// (-4000 + -3501) / 2 = -3750.5 rounds away from zero to -3751
	assert.Equal(t, int64(-3751), model.AverageAmount(f.food.ID, chips.ID))
}

func TestProbabilityModelIgnoresIncomeAndPredictions(t *testing.T) {
	f := newProbabilityFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: 100000, Date: date(2024, 12, 5), Income: true,
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		BudgetID: f.food.ID, Amount: -123, Date: date(2024, 12, 5), Prediction: true,
	})
	model := f.build(t)

	assert.InDelta(t, 0.5, model.TransactionsPerDay(), 1e-9)
	assert.InDelta(t, 0.6, model.BudgetOdds(f.food.ID), 1e-9)
}

func TestProbabilityModelSampleTag(t *testing.T) {
	f := newProbabilityFixture()
	model := f.build(t)

	// Tags are ordered by name: doritos at 2/3, then groceries
	tagID, amount, ok := model.SampleTag(f.food.ID, 0.1)
	require.True(t, ok)
	assert.Equal(t, f.doritos.ID, tagID)
	assert.Equal(t, int64(-3750), amount)

	tagID, amount, ok = model.SampleTag(f.food.ID, 0.9)
	require.True(t, ok)
	assert.Equal(t, f.groceries.ID, tagID)
	assert.Equal(t, int64(-2000), amount)

	// Housing's history is entirely untagged
	_, _, ok = model.SampleTag(f.housing.ID, 0.5)
	assert.False(t, ok)
}

func TestProbabilityModelEmptyWindow(t *testing.T) {
	f := newProbabilityFixture()
	f.window = domain.DateRange{Start: date(2020, 1, 1), End: date(2020, 1, 31)}
	model := f.build(t)

	assert.True(t, model.Empty())
	assert.Zero(t, model.TransactionsPerDay())
	assert.Empty(t, model.Budgets())
}
