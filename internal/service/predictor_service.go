package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

const (
	// MaxPredictionDays bounds the prediction window; the per-day sampling
	// loop is multiplicative in days and budgets.
	MaxPredictionDays = 3660

	// incomeDaysPerMonth converts a monthly net income into a per-paycheque
	// amount.
	incomeDaysPerMonth = 31
)

// PredictorService regenerates a user's synthetic prediction transactions.
// Each run purges every existing prediction row and writes a fresh batch:
// outcome rows sampled from a ProbabilityModel, recurring paycheques, and
// monthly allocation transfers from the root budget.
type PredictorService struct {
	budgetRepo      domain.BudgetRepository
	tagRepo         domain.TagRepository
	transactionRepo domain.TransactionRepository
	settingsRepo    domain.UserSettingsRepository

	// roll returns true with probability p; randFloat draws uniformly from
	// [0,1). Both are swappable so tests can pin the dice.
	roll      func(p float64) bool
	randFloat func() float64
}

// NewPredictorService creates a new PredictorService
func NewPredictorService(
	budgetRepo domain.BudgetRepository,
	tagRepo domain.TagRepository,
	transactionRepo domain.TransactionRepository,
	settingsRepo domain.UserSettingsRepository,
) *PredictorService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &PredictorService{
		budgetRepo:      budgetRepo,
		tagRepo:         tagRepo,
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
		randFloat:       rng.Float64,
	}
	s.roll = func(p float64) bool {
		if p <= 0 {
			return false
		}
		if p >= 1 {
			return true
		}
		return s.randFloat() <= p
	}
	return s
}

// RunFromSettings derives the analysis and prediction windows from the user's
// settings (analyze_start through now, tomorrow through predict_end) and runs
// the predictor.
func (s *PredictorService) RunFromSettings(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Transaction, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := util.Date(now)
	analyzeRange := domain.DateRange{Start: util.Date(settings.AnalyzeStart), End: today}
	predictRange := domain.DateRange{Start: today.AddDate(0, 0, 1), End: util.Date(settings.PredictEnd)}
	return s.Run(ctx, userID, analyzeRange, predictRange)
}

// Run regenerates predictions for the user: fits a probability model over
// analyzeRange, samples outcome transactions across predictRange, projects
// recurring income, and atomically replaces the previous prediction batch.
// Degenerate windows are not errors; they simply produce fewer rows.
func (s *PredictorService) Run(ctx context.Context, userID uuid.UUID, analyzeRange, predictRange domain.DateRange) ([]*domain.Transaction, error) {
	analyzeRange.Start, analyzeRange.End = util.Date(analyzeRange.Start), util.Date(analyzeRange.End)
	predictRange.Start, predictRange.End = util.Date(predictRange.Start), util.Date(predictRange.End)

	if !predictRange.End.Before(predictRange.Start) &&
		util.DaysBetween(predictRange.Start, predictRange.End) > MaxPredictionDays {
		return nil, domain.ErrInvalidInput
	}

	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	model, err := BuildProbabilityModel(ctx, s.budgetRepo, s.tagRepo, s.transactionRepo, userID, analyzeRange)
	if err != nil {
		return nil, err
	}

	var predicted []*domain.Transaction

	if !model.Empty() && !predictRange.End.Before(predictRange.Start) {
		predicted = append(predicted, s.sampleOutcomes(model, predictRange)...)
	}

	income, err := s.generateIncome(ctx, userID, settings, predictRange)
	if err != nil {
		return nil, err
	}
	predicted = append(predicted, income...)

	return s.transactionRepo.ReplacePredictions(ctx, userID, predicted)
}

// sampleOutcomes walks the prediction window day by day, drawing the day's
// transaction count from the sample's daily rate and flipping a weighted coin
// per budget for each slot.
func (s *PredictorService) sampleOutcomes(model *ProbabilityModel, predictRange domain.DateRange) []*domain.Transaction {
	var predicted []*domain.Transaction
	budgets := model.Budgets()
	days := util.DaysBetween(predictRange.Start, predictRange.End)

	for day := 0; day <= days; day++ {
		date := predictRange.Start.AddDate(0, 0, day)
		for i := 0; i < s.transactionsToCreate(model.TransactionsPerDay()); i++ {
			for _, budget := range budgets {
				if !s.roll(model.BudgetOdds(budget.ID)) {
					continue
				}
				tagID, amount, ok := model.SampleTag(budget.ID, s.randFloat())
				if !ok {
					continue
				}
				predicted = append(predicted, &domain.Transaction{
					BudgetID:    budget.ID,
					Description: domain.DescriptionPrediction,
					Amount:      amount,
					Date:        date,
					Prediction:  true,
					TagIDs:      []uuid.UUID{tagID},
				})
			}
		}
	}
	return predicted
}

// transactionsToCreate returns the whole part of the daily rate, plus one
// more with probability equal to the fractional remainder. Over the window
// this preserves the observed rate without giving every day the same count.
func (s *PredictorService) transactionsToCreate(perDay float64) int {
	count := int(math.Floor(perDay))
	fraction := perDay - math.Floor(perDay)
	if fraction > 0 && s.roll(fraction) {
		count++
	}
	return count
}

// generateIncome projects recurring income across the prediction window:
// a paycheque on the root budget every IncomeFrequencyDays, and every
// 2*IncomeFrequencyDays a credit/debit pair moving each positive monthly
// allocation from the root into its budget.
func (s *PredictorService) generateIncome(ctx context.Context, userID uuid.UUID, settings *domain.UserSettings, predictRange domain.DateRange) ([]*domain.Transaction, error) {
	if settings.IncomeFrequencyDays <= 0 || predictRange.End.Before(predictRange.Start) {
		return nil, nil
	}

	root, err := s.budgetRepo.GetByName(ctx, userID, domain.RootBudgetName)
	if err != nil {
		return nil, err
	}
	paychequeTag, err := s.tagRepo.GetOrCreate(ctx, userID, domain.TagPaycheque)
	if err != nil {
		return nil, err
	}
	incomeTag, err := s.tagRepo.GetOrCreate(ctx, userID, domain.TagIncome)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	frequency := settings.IncomeFrequencyDays
	paycheque := decimal.NewFromInt(settings.ExpectedMonthlyNetIncome).
		Div(decimal.NewFromInt(incomeDaysPerMonth)).
		Mul(decimal.NewFromInt(int64(frequency))).
		Round(0).IntPart()

	days := util.DaysBetween(predictRange.Start, predictRange.End)
	var projected []*domain.Transaction

	for offset := 0; offset <= days; offset += frequency {
		projected = append(projected, &domain.Transaction{
			BudgetID:    root.ID,
			Description: domain.TagPaycheque,
			Amount:      paycheque,
			Date:        predictRange.Start.AddDate(0, 0, offset),
			Income:      true,
			Prediction:  true,
			TagIDs:      []uuid.UUID{paychequeTag.ID},
		})
	}

	for offset := 0; offset <= days; offset += 2 * frequency {
		date := predictRange.Start.AddDate(0, 0, offset)
		for _, budget := range budgets {
			if budget.MonthlyAllocation <= 0 {
				continue
			}
			projected = append(projected,
				&domain.Transaction{
					BudgetID:    budget.ID,
					Description: "Monthly Income",
					Amount:      budget.MonthlyAllocation,
					Date:        date,
					Income:      true,
					Prediction:  true,
					TagIDs:      []uuid.UUID{incomeTag.ID},
				},
				&domain.Transaction{
					BudgetID:    root.ID,
					Description: "Monthly Income: " + budget.Name,
					Amount:      -budget.MonthlyAllocation,
					Date:        date,
					Income:      true,
					Prediction:  true,
					TagIDs:      []uuid.UUID{incomeTag.ID},
				},
			)
		}
	}

	return projected, nil
}
