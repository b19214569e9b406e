package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	tagRepo         domain.TagRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	tagRepo domain.TagRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		tagRepo:         tagRepo,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	BudgetID    uuid.UUID
	Description string
	Amount      int64
	Date        *time.Time
	Income      bool
	Transfer    bool
	TagIDs      []uuid.UUID
}

// CreateTransaction creates a new transaction with validation. Transactions
// can only be charged to leaf budgets the user owns, with tags the user owns.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrInvalidInput
	}
	if input.Amount > domain.MaxTransactionAmount || input.Amount < domain.MinTransactionAmount {
		return nil, domain.ErrInvalidInput
	}

	budget, err := s.budgetRepo.GetByID(ctx, userID, input.BudgetID)
	if err != nil {
		return nil, err
	}
	if budget.IsNode {
		return nil, domain.ErrNodeOwnsTransactions
	}

	for _, tagID := range input.TagIDs {
		if _, err := s.tagRepo.GetByID(ctx, userID, tagID); err != nil {
			return nil, err
		}
	}

	date := util.Date(time.Now())
	if input.Date != nil {
		date = util.Date(*input.Date)
	}

	return s.transactionRepo.Create(ctx, &domain.Transaction{
		BudgetID:    budget.ID,
		Description: description,
		Amount:      input.Amount,
		Date:        date,
		Income:      input.Income,
		Transfer:    input.Transfer,
		TagIDs:      input.TagIDs,
	})
}

// GetTransactions retrieves the user's transactions matching the filter,
// ordered by date.
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	return s.transactionRepo.ListByUser(ctx, userID, filter)
}
