package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// BalanceService resolves budget balances over the budget tree. A leaf
// budget's balance is the sum of its own non-prediction transactions; a node
// budget's balance is the sum of its direct children's balances, recursively.
type BalanceService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *BalanceService {
	return &BalanceService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// Balance returns the budget's balance in cents. When through is non-nil only
// transactions dated on or before it are counted.
func (s *BalanceService) Balance(ctx context.Context, budget *domain.Budget, through *time.Time) (int64, error) {
	if !budget.IsNode {
		prediction := false
		filter := &domain.TransactionFilter{
			BudgetID:   &budget.ID,
			EndDate:    through,
			Prediction: &prediction,
		}
		return s.transactionRepo.SumByUser(ctx, budget.UserID, filter)
	}

	children, err := s.budgetRepo.Children(ctx, budget.ID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, child := range children {
		balance, err := s.Balance(ctx, child, through)
		if err != nil {
			return 0, err
		}
		total += balance
	}
	return total, nil
}

// BalanceByID resolves the budget then delegates to Balance.
func (s *BalanceService) BalanceByID(ctx context.Context, userID, budgetID uuid.UUID, through *time.Time) (int64, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, budgetID)
	if err != nil {
		return 0, err
	}
	return s.Balance(ctx, budget, through)
}

// Descendants returns the transitive closure of children under the budget.
func (s *BalanceService) Descendants(ctx context.Context, budgetID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.Descendants(ctx, budgetID)
}
