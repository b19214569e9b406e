package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// tagStat holds the conditional odds and average amount of one tag within one
// budget's sample.
type tagStat struct {
	tagID         uuid.UUID
	odds          float64
	averageAmount int64
}

// budgetStat holds one budget's share of the sample and its tag distribution.
type budgetStat struct {
	budget *domain.Budget
	odds   float64
	tags   []tagStat
}

// ProbabilityModel is an empirical model of a user's spending fitted over an
// analysis window. The sample set is the window's non-prediction, non-income
// transactions. Budget odds are the share of the sample charged to each
// budget; tag odds are conditioned per budget over the transactions that
// carry tags, so a budget whose history is entirely untagged contributes no
// tag distribution and is never sampled.
type ProbabilityModel struct {
	analyzeDays int
	sampleCount int
	budgets     []budgetStat
}

// BuildProbabilityModel fits a ProbabilityModel for the user over the given
// analysis window.
func BuildProbabilityModel(
	ctx context.Context,
	budgetRepo domain.BudgetRepository,
	tagRepo domain.TagRepository,
	transactionRepo domain.TransactionRepository,
	userID uuid.UUID,
	analyzeRange domain.DateRange,
) (*ProbabilityModel, error) {
	prediction := false
	income := false
	transactions, err := transactionRepo.ListByUser(ctx, userID, &domain.TransactionFilter{
		StartDate:  &analyzeRange.Start,
		EndDate:    &analyzeRange.End,
		Prediction: &prediction,
		Income:     &income,
	})
	if err != nil {
		return nil, err
	}

	budgets, err := budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tags, err := tagRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	budgetsByID := make(map[uuid.UUID]*domain.Budget, len(budgets))
	for _, budget := range budgets {
		budgetsByID[budget.ID] = budget
	}
	tagNames := make(map[uuid.UUID]string, len(tags))
	for _, tag := range tags {
		tagNames[tag.ID] = tag.Name
	}

	type tagSample struct {
		count int64
		sum   int64
	}
	budgetCounts := make(map[uuid.UUID]int)
	tagSamples := make(map[uuid.UUID]map[uuid.UUID]*tagSample)

	for _, tx := range transactions {
		budgetCounts[tx.BudgetID]++
		for _, tagID := range tx.TagIDs {
			samples, ok := tagSamples[tx.BudgetID]
			if !ok {
				samples = make(map[uuid.UUID]*tagSample)
				tagSamples[tx.BudgetID] = samples
			}
			sample, ok := samples[tagID]
			if !ok {
				sample = &tagSample{}
				samples[tagID] = sample
			}
			sample.count++
			sample.sum += tx.Amount
		}
	}

	model := &ProbabilityModel{
		analyzeDays: util.DaysBetween(analyzeRange.Start, analyzeRange.End),
		sampleCount: len(transactions),
	}

	for budgetID, count := range budgetCounts {
		budget, ok := budgetsByID[budgetID]
		if !ok {
			continue
		}
		stat := budgetStat{
			budget: budget,
			odds:   float64(count) / float64(len(transactions)),
		}

		var tagTotal int64
		for _, sample := range tagSamples[budgetID] {
			tagTotal += sample.count
		}
		for tagID, sample := range tagSamples[budgetID] {
			average := decimal.NewFromInt(sample.sum).
				Div(decimal.NewFromInt(sample.count)).
				Round(0).IntPart()
			stat.tags = append(stat.tags, tagStat{
				tagID:         tagID,
				odds:          float64(sample.count) / float64(tagTotal),
				averageAmount: average,
			})
		}
		sort.Slice(stat.tags, func(i, j int) bool {
			return tagNames[stat.tags[i].tagID] < tagNames[stat.tags[j].tagID]
		})

		model.budgets = append(model.budgets, stat)
	}
	sort.Slice(model.budgets, func(i, j int) bool {
		return model.budgets[i].budget.Name < model.budgets[j].budget.Name
	})

	return model, nil
}

// Empty reports whether the analysis window held no qualifying transactions,
// in which case no outcome predictions can be sampled.
func (m *ProbabilityModel) Empty() bool {
	return m.sampleCount == 0 || m.analyzeDays == 0
}

// TransactionsPerDay returns the sample's average daily transaction rate,
// possibly fractional.
func (m *ProbabilityModel) TransactionsPerDay() float64 {
	if m.analyzeDays == 0 {
		return 0
	}
	return float64(m.sampleCount) / float64(m.analyzeDays)
}

// Budgets returns the budgets with at least one sampled transaction, ordered
// by name.
func (m *ProbabilityModel) Budgets() []*domain.Budget {
	budgets := make([]*domain.Budget, len(m.budgets))
	for i, stat := range m.budgets {
		budgets[i] = stat.budget
	}
	return budgets
}

// BudgetOdds returns the odds that a sampled transaction belongs to the
// budget. Odds across all sampled budgets sum to 1.
func (m *ProbabilityModel) BudgetOdds(budgetID uuid.UUID) float64 {
	for _, stat := range m.budgets {
		if stat.budget.ID == budgetID {
			return stat.odds
		}
	}
	return 0
}

// TagOdds returns the odds that a sampled transaction in the budget carries
// the tag, conditioned on the budget's tagged transactions.
func (m *ProbabilityModel) TagOdds(budgetID, tagID uuid.UUID) float64 {
	for _, stat := range m.budgets {
		if stat.budget.ID != budgetID {
			continue
		}
		for _, tag := range stat.tags {
			if tag.tagID == tagID {
				return tag.odds
			}
		}
	}
	return 0
}

// AverageAmount returns the mean amount in cents over the budget's
// transactions carrying the tag, rounded half away from zero.
func (m *ProbabilityModel) AverageAmount(budgetID, tagID uuid.UUID) int64 {
	for _, stat := range m.budgets {
		if stat.budget.ID != budgetID {
			continue
		}
		for _, tag := range stat.tags {
			if tag.tagID == tagID {
				return tag.averageAmount
			}
		}
	}
	return 0
}

// SampleTag picks a tag from the budget's distribution by the uniform draw
// r in [0,1) and returns it with its average amount. ok is false when the
// budget has no tag distribution.
func (m *ProbabilityModel) SampleTag(budgetID uuid.UUID, r float64) (uuid.UUID, int64, bool) {
	for _, stat := range m.budgets {
		if stat.budget.ID != budgetID {
			continue
		}
		if len(stat.tags) == 0 {
			return uuid.Nil, 0, false
		}
		cumulative := 0.0
		for _, tag := range stat.tags {
			cumulative += tag.odds
			if r <= cumulative {
				return tag.tagID, tag.averageAmount, true
			}
		}
		last := stat.tags[len(stat.tags)-1]
		return last.tagID, last.averageAmount, true
	}
	return uuid.Nil, 0, false
}
