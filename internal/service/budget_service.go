package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// BudgetService handles budget tree business logic
type BudgetService struct {
	budgetRepo domain.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Name              string
	ParentID          *uuid.UUID
	IsNode            bool
	MonthlyAllocation int64
}

// CreateBudget creates a new budget under the user's tree. Budgets may only
// be attached to node budgets or the root.
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxBudgetNameLength {
		return nil, domain.ErrNameTooLong
	}
	if name == domain.RootBudgetName {
		return nil, domain.ErrRootImmutable
	}

	if existing, err := s.budgetRepo.GetByName(ctx, userID, name); err == nil && existing != nil {
		return nil, domain.ErrDuplicateName
	} else if err != nil && !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, err
	}

	parentID := input.ParentID
	if parentID == nil {
		root, err := s.GetOrCreateRoot(ctx, userID)
		if err != nil {
			return nil, err
		}
		parentID = &root.ID
	} else {
		parent, err := s.budgetRepo.GetByID(ctx, userID, *parentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsNode && parent.Name != domain.RootBudgetName {
			return nil, domain.ErrInvalidInput
		}
	}

	budget := &domain.Budget{
		UserID:            userID,
		Name:              name,
		ParentID:          parentID,
		IsNode:            input.IsNode,
		MonthlyAllocation: input.MonthlyAllocation,
	}
	return s.budgetRepo.Create(ctx, budget)
}

// GetBudgets retrieves all budgets for a user
func (s *BudgetService) GetBudgets(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.ListByUser(ctx, userID)
}

// GetBudgetByID retrieves a budget by ID for a user
func (s *BudgetService) GetBudgetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, userID, id)
}

// GetOrCreateRoot returns the user's root budget, creating it on first use.
// The root is a node budget with no parent.
func (s *BudgetService) GetOrCreateRoot(ctx context.Context, userID uuid.UUID) (*domain.Budget, error) {
	root, err := s.budgetRepo.GetByName(ctx, userID, domain.RootBudgetName)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, err
	}
	return s.budgetRepo.Create(ctx, &domain.Budget{
		UserID: userID,
		Name:   domain.RootBudgetName,
		IsNode: true,
	})
}
