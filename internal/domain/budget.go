package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RootBudgetName is the name of the per-user root budget. Every other budget
// hangs somewhere beneath it.
const RootBudgetName = "root"

// Budget is a node in a per-user tree of spending categories. Leaf budgets own
// transactions; node budgets only aggregate their children.
type Budget struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"userId"`
	Name              string     `json:"name"`
	ParentID          *uuid.UUID `json:"parentId,omitempty"`
	IsNode            bool       `json:"isNode"`
	MonthlyAllocation int64      `json:"monthlyAllocation"`
	CreatedAt         time.Time  `json:"createdAt"`
}

const MaxBudgetNameLength = 20

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Budget, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Children(ctx context.Context, budgetID uuid.UUID) ([]*Budget, error)
	// Descendants returns the full transitive closure of children.
	Descendants(ctx context.Context, budgetID uuid.UUID) ([]*Budget, error)
}
