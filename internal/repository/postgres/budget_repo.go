package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, name, parent_id, is_node, monthly_allocation, created_at`

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, name, parent_id, is_node, monthly_allocation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+budgetColumns,
		pgUUID(budget.ID), pgUUID(budget.UserID), budget.Name,
		pgUUIDPtr(budget.ParentID), budget.IsNode, budget.MonthlyAllocation,
	)
	return scanBudget(row)
}

// GetByID retrieves a budget by ID within a user's tree
func (r *BudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2`,
		pgUUID(userID), pgUUID(id),
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByName retrieves a budget by name within a user's tree
func (r *BudgetRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND name = $2`,
		pgUUID(userID), name,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// ListByUser retrieves all budgets for a user, ordered by name
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY name`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBudgets(rows)
}

// Children retrieves a budget's direct children, ordered by name
func (r *BudgetRepository) Children(ctx context.Context, budgetID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE parent_id = $1 ORDER BY name`,
		pgUUID(budgetID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBudgets(rows)
}

// Descendants retrieves the transitive closure of children under a budget
// via a recursive CTE.
func (r *BudgetRepository) Descendants(ctx context.Context, budgetID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		WITH RECURSIVE search_tree AS (
			SELECT `+budgetColumns+`
			FROM budgets
			WHERE parent_id = $1
			UNION ALL
			SELECT b.id, b.user_id, b.name, b.parent_id, b.is_node, b.monthly_allocation, b.created_at
			FROM budgets b
			JOIN search_tree t ON b.parent_id = t.id
		)
		SELECT `+budgetColumns+` FROM search_tree ORDER BY name`,
		pgUUID(budgetID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBudgets(rows)
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		id, userID pgtype.UUID
		parentID   pgtype.UUID
		createdAt  pgtype.Timestamptz
		budget     domain.Budget
	)
	err := row.Scan(&id, &userID, &budget.Name, &parentID, &budget.IsNode, &budget.MonthlyAllocation, &createdAt)
	if err != nil {
		return nil, err
	}
	budget.ID = fromPgUUID(id)
	budget.UserID = fromPgUUID(userID)
	budget.ParentID = fromPgUUIDPtr(parentID)
	budget.CreatedAt = createdAt.Time
	return &budget, nil
}

func scanBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}
