package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. Transactions are user-scoped through their budget; tags live in
// a transaction_tags join table that cascades on delete.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `t.id, t.budget_id, t.description, t.amount, t.date, t.income, t.transfer, t.prediction, t.created_at`

// transactionWhere builds the WHERE clause and args for a user-scoped
// transaction query.
func transactionWhere(userID uuid.UUID, filter *domain.TransactionFilter) (string, []interface{}) {
	conditions := []string{"b.user_id = $1"}
	args := []interface{}{pgUUID(userID)}

	add := func(format string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if filter != nil {
		if filter.StartDate != nil {
			add("t.date >= $%d", pgDate(*filter.StartDate))
		}
		if filter.EndDate != nil {
			add("t.date <= $%d", pgDate(*filter.EndDate))
		}
		if filter.BudgetID != nil {
			add("t.budget_id = $%d", pgUUID(*filter.BudgetID))
		}
		if filter.TagID != nil {
			add("EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.id AND tt.tag_id = $%d)", pgUUID(*filter.TagID))
		}
		if filter.Income != nil {
			add("t.income = $%d", *filter.Income)
		}
		if filter.Transfer != nil {
			add("t.transfer = $%d", *filter.Transfer)
		}
		if filter.Prediction != nil {
			add("t.prediction = $%d", *filter.Prediction)
		}
	}

	return strings.Join(conditions, " AND "), args
}

// Create creates a new transaction together with its tag links
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := insertTransaction(ctx, tx, transaction)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// ListByUser retrieves the user's transactions matching filter, ordered by
// date.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	where, args := transactionWhere(userID, filter)

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN budgets b ON b.id = t.budget_id
		WHERE `+where+`
		ORDER BY t.date, t.created_at`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	byID := make(map[uuid.UUID]*domain.Transaction)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
		byID[transaction.ID] = transaction
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, where, args, byID); err != nil {
		return nil, err
	}
	return transactions, nil
}

// attachTags loads the tag links for every transaction matched by the same
// WHERE clause the row query used.
func (r *TransactionRepository) attachTags(ctx context.Context, where string, args []interface{}, byID map[uuid.UUID]*domain.Transaction) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT tt.transaction_id, tt.tag_id
		FROM transaction_tags tt
		JOIN transactions t ON t.id = tt.transaction_id
		JOIN budgets b ON b.id = t.budget_id
		WHERE `+where,
		args...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var transactionID, tagID pgtype.UUID
		if err := rows.Scan(&transactionID, &tagID); err != nil {
			return err
		}
		if transaction, ok := byID[fromPgUUID(transactionID)]; ok {
			transaction.TagIDs = append(transaction.TagIDs, fromPgUUID(tagID))
		}
	}
	return rows.Err()
}

// SumByUser sums the amounts of the user's transactions matching filter
func (r *TransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) (int64, error) {
	where, args := transactionWhere(userID, filter)

	var sum int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN budgets b ON b.id = t.budget_id
		WHERE `+where,
		args...,
	).Scan(&sum)
	return sum, err
}

// CountByUser counts the user's transactions matching filter
func (r *TransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) (int64, error) {
	where, args := transactionWhere(userID, filter)

	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN budgets b ON b.id = t.budget_id
		WHERE `+where,
		args...,
	).Scan(&count)
	return count, err
}

// ReplacePredictions deletes every prediction row for the user and inserts
// the given rows in their place, in one database transaction, so a failed run
// never leaves a mix of old and new predictions.
func (r *TransactionRepository) ReplacePredictions(ctx context.Context, userID uuid.UUID, transactions []*domain.Transaction) ([]*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM transactions t
		USING budgets b
		WHERE b.id = t.budget_id AND b.user_id = $1 AND t.prediction`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}

	created := make([]*domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		inserted, err := insertTransaction(ctx, tx, transaction)
		if err != nil {
			return nil, err
		}
		created = append(created, inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// insertTransaction inserts one transaction and its tag links within tx
func insertTransaction(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}

	var createdAt pgtype.Timestamptz
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (id, budget_id, description, amount, date, income, transfer, prediction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		pgUUID(transaction.ID), pgUUID(transaction.BudgetID), transaction.Description,
		transaction.Amount, pgDate(transaction.Date),
		transaction.Income, transaction.Transfer, transaction.Prediction,
	).Scan(&createdAt)
	if err != nil {
		return nil, err
	}
	transaction.CreatedAt = createdAt.Time

	for _, tagID := range transaction.TagIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO transaction_tags (transaction_id, tag_id) VALUES ($1, $2)`,
			pgUUID(transaction.ID), pgUUID(tagID),
		)
		if err != nil {
			return nil, err
		}
	}
	return transaction, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id, budgetID pgtype.UUID
		date         pgtype.Date
		createdAt    pgtype.Timestamptz
		transaction  domain.Transaction
	)
	err := row.Scan(&id, &budgetID, &transaction.Description, &transaction.Amount,
		&date, &transaction.Income, &transaction.Transfer, &transaction.Prediction, &createdAt)
	if err != nil {
		return nil, err
	}
	transaction.ID = fromPgUUID(id)
	transaction.BudgetID = fromPgUUID(budgetID)
	transaction.Date = date.Time
	transaction.CreatedAt = createdAt.Time
	return &transaction, nil
}
