package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// ReportFilter narrows a report's transaction set and, for multi-series
// kinds, its entity keys. Empty id slices mean every budget/tag of the user.
type ReportFilter struct {
	BudgetIDs  []uuid.UUID
	TagIDs     []uuid.UUID
	Income     *bool
	Transfer   *bool
	Prediction *bool
}

// ReportService aggregates transactions into per-bucket series. Each call is
// a pure query: nothing is cached or mutated.
type ReportService struct {
	budgetRepo      domain.BudgetRepository
	tagRepo         domain.TagRepository
	transactionRepo domain.TransactionRepository
	balanceService  *BalanceService
}

// NewReportService creates a new ReportService
func NewReportService(
	budgetRepo domain.BudgetRepository,
	tagRepo domain.TagRepository,
	transactionRepo domain.TransactionRepository,
	balanceService *BalanceService,
) *ReportService {
	return &ReportService{
		budgetRepo:      budgetRepo,
		tagRepo:         tagRepo,
		transactionRepo: transactionRepo,
		balanceService:  balanceService,
	}
}

// Generate computes the report of the given kind over rng, split into buckets
// of the given size. A nil rng derives the range from the user's first and
// last matching transactions; with no matching transactions the report is
// empty rather than an error.
func (s *ReportService) Generate(ctx context.Context, userID uuid.UUID, kind domain.ReportKind, rng *domain.DateRange, size domain.TimeBucketSize, filter ReportFilter) (*domain.Report, error) {
	if !kind.Valid() || !size.Valid() {
		return nil, domain.ErrInvalidInput
	}

	if rng == nil {
		derived, err := s.deriveRange(ctx, userID, filter)
		if err != nil {
			return nil, err
		}
		if derived == nil {
			return emptyReport(kind), nil
		}
		rng = derived
	}

	buckets := util.TimeBuckets(rng.Start, rng.End, size)
	report := &domain.Report{Dates: util.ReportDates(buckets)}

	transactions, err := s.fetch(ctx, userID, rng, filter)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.ReportTransactionCount, domain.ReportIncome, domain.ReportTransfer, domain.ReportOutcome:
		report.Data = flatSeries(kind, transactions, buckets)
	case domain.ReportBudgetDelta:
		budgets, err := s.scopedBudgets(ctx, userID, filter.BudgetIDs)
		if err != nil {
			return nil, err
		}
		report.Data = budgetDeltaSeries(budgets, transactions, buckets)
	case domain.ReportTagDelta:
		tags, err := s.scopedTags(ctx, userID, filter.TagIDs)
		if err != nil {
			return nil, err
		}
		report.Data = tagDeltaSeries(tags, transactions, buckets)
	case domain.ReportBudgetBalance:
		budgets, err := s.scopedBudgets(ctx, userID, filter.BudgetIDs)
		if err != nil {
			return nil, err
		}
		data, err := s.budgetBalanceSeries(ctx, budgets, buckets)
		if err != nil {
			return nil, err
		}
		report.Data = data
	case domain.ReportTagBalance:
		tags, err := s.scopedTags(ctx, userID, filter.TagIDs)
		if err != nil {
			return nil, err
		}
		data, err := s.tagBalanceSeries(ctx, userID, tags, buckets)
		if err != nil {
			return nil, err
		}
		report.Data = data
	}

	return report, nil
}

func emptyReport(kind domain.ReportKind) *domain.Report {
	report := &domain.Report{Dates: []string{}}
	if kind.MultiSeries() {
		report.Data = map[string][]int64{}
	} else {
		report.Data = []int64{}
	}
	return report
}

// deriveRange finds the first and last matching transaction dates. Returns
// nil when the filtered set is empty.
func (s *ReportService) deriveRange(ctx context.Context, userID uuid.UUID, filter ReportFilter) (*domain.DateRange, error) {
	transactions, err := s.fetch(ctx, userID, nil, filter)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, nil
	}
	// ListByUser orders by date.
	return &domain.DateRange{
		Start: util.Date(transactions[0].Date),
		End:   util.Date(transactions[len(transactions)-1].Date),
	}, nil
}

// fetch materializes the transaction set for the report. Entity restriction
// with a single id is pushed down to the store; larger sets are filtered here.
func (s *ReportService) fetch(ctx context.Context, userID uuid.UUID, rng *domain.DateRange, filter ReportFilter) ([]*domain.Transaction, error) {
	storeFilter := &domain.TransactionFilter{
		Income:     filter.Income,
		Transfer:   filter.Transfer,
		Prediction: filter.Prediction,
	}
	if rng != nil {
		storeFilter.StartDate = &rng.Start
		storeFilter.EndDate = &rng.End
	}
	if len(filter.BudgetIDs) == 1 {
		storeFilter.BudgetID = &filter.BudgetIDs[0]
	}
	if len(filter.TagIDs) == 1 {
		storeFilter.TagID = &filter.TagIDs[0]
	}

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, storeFilter)
	if err != nil {
		return nil, err
	}

	if len(filter.BudgetIDs) > 1 {
		transactions = filterByBudgets(transactions, filter.BudgetIDs)
	}
	if len(filter.TagIDs) > 1 {
		transactions = filterByTags(transactions, filter.TagIDs)
	}
	return transactions, nil
}

func (s *ReportService) scopedBudgets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Budget, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return budgets, nil
	}
	wanted := idSet(ids)
	scoped := budgets[:0:0]
	for _, budget := range budgets {
		if wanted[budget.ID] {
			scoped = append(scoped, budget)
		}
	}
	return scoped, nil
}

func (s *ReportService) scopedTags(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error) {
	tags, err := s.tagRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return tags, nil
	}
	wanted := idSet(ids)
	scoped := tags[:0:0]
	for _, tag := range tags {
		if wanted[tag.ID] {
			scoped = append(scoped, tag)
		}
	}
	return scoped, nil
}

// flatSeries computes one value per bucket over the bucket's transactions.
func flatSeries(kind domain.ReportKind, transactions []*domain.Transaction, buckets []domain.DateRange) []int64 {
	series := make([]int64, len(buckets))
	for i, bucket := range buckets {
		for _, tx := range transactions {
			if !inBucket(tx, bucket) {
				continue
			}
			switch kind {
			case domain.ReportTransactionCount:
				series[i]++
			case domain.ReportIncome:
				if tx.Income {
					series[i] += tx.Amount
				}
			case domain.ReportTransfer:
				if tx.Transfer {
					series[i] += tx.Amount
				}
			case domain.ReportOutcome:
				if !tx.Income && !tx.Transfer {
					series[i] += tx.Amount
				}
			}
		}
	}
	return series
}

// budgetDeltaSeries sums each budget's transactions per bucket.
func budgetDeltaSeries(budgets []*domain.Budget, transactions []*domain.Transaction, buckets []domain.DateRange) map[string][]int64 {
	data := make(map[string][]int64, len(budgets))
	for _, budget := range budgets {
		series := make([]int64, len(buckets))
		for i, bucket := range buckets {
			for _, tx := range transactions {
				if tx.BudgetID == budget.ID && inBucket(tx, bucket) {
					series[i] += tx.Amount
				}
			}
		}
		data[budget.ID.String()] = series
	}
	return data
}

// tagDeltaSeries sums transactions carrying each tag per bucket.
func tagDeltaSeries(tags []*domain.Tag, transactions []*domain.Transaction, buckets []domain.DateRange) map[string][]int64 {
	data := make(map[string][]int64, len(tags))
	for _, tag := range tags {
		series := make([]int64, len(buckets))
		for i, bucket := range buckets {
			for _, tx := range transactions {
				if carriesTag(tx, tag.ID) && inBucket(tx, bucket) {
					series[i] += tx.Amount
				}
			}
		}
		data[tag.ID.String()] = series
	}
	return data
}

// budgetBalanceSeries computes each budget's cumulative balance through every
// bucket's end date, rolling node budgets up over their descendants.
func (s *ReportService) budgetBalanceSeries(ctx context.Context, budgets []*domain.Budget, buckets []domain.DateRange) (map[string][]int64, error) {
	data := make(map[string][]int64, len(budgets))
	for _, budget := range budgets {
		series := make([]int64, len(buckets))
		for i, bucket := range buckets {
			through := bucket.End
			balance, err := s.balanceService.Balance(ctx, budget, &through)
			if err != nil {
				return nil, err
			}
			series[i] = balance
		}
		data[budget.ID.String()] = series
	}
	return data, nil
}

// tagBalanceSeries computes each tag's cumulative non-prediction sum through
// every bucket's end date.
func (s *ReportService) tagBalanceSeries(ctx context.Context, userID uuid.UUID, tags []*domain.Tag, buckets []domain.DateRange) (map[string][]int64, error) {
	prediction := false
	data := make(map[string][]int64, len(tags))
	for _, tag := range tags {
		series := make([]int64, len(buckets))
		for i, bucket := range buckets {
			through := bucket.End
			sum, err := s.transactionRepo.SumByUser(ctx, userID, &domain.TransactionFilter{
				TagID:      &tag.ID,
				EndDate:    &through,
				Prediction: &prediction,
			})
			if err != nil {
				return nil, err
			}
			series[i] = sum
		}
		data[tag.ID.String()] = series
	}
	return data, nil
}

func inBucket(tx *domain.Transaction, bucket domain.DateRange) bool {
	date := util.Date(tx.Date)
	return !date.Before(bucket.Start) && !date.After(bucket.End)
}

func carriesTag(tx *domain.Transaction, tagID uuid.UUID) bool {
	for _, id := range tx.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

func filterByBudgets(transactions []*domain.Transaction, ids []uuid.UUID) []*domain.Transaction {
	wanted := idSet(ids)
	filtered := transactions[:0:0]
	for _, tx := range transactions {
		if wanted[tx.BudgetID] {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func filterByTags(transactions []*domain.Transaction, ids []uuid.UUID) []*domain.Transaction {
	wanted := idSet(ids)
	filtered := transactions[:0:0]
	for _, tx := range transactions {
		for _, tagID := range tx.TagIDs {
			if wanted[tagID] {
				filtered = append(filtered, tx)
				break
			}
		}
	}
	return filtered
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
