package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transaction is a single financial event charged against a leaf budget.
// Amount is in minor currency units (cents); positive is inflow, negative
// outflow. Prediction rows are synthetic projections written by the predictor
// and are purged and recreated wholesale on every run.
type Transaction struct {
	ID          uuid.UUID   `json:"id"`
	BudgetID    uuid.UUID   `json:"budgetId"`
	Description string      `json:"description"`
	Amount      int64       `json:"amount"`
	Date        time.Time   `json:"date"`
	Income      bool        `json:"income"`
	Transfer    bool        `json:"transfer"`
	Prediction  bool        `json:"prediction"`
	TagIDs      []uuid.UUID `json:"tagIds"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Transaction amounts outside this range are rejected as caller mistakes.
const (
	MaxTransactionAmount = 100_000_00
	MinTransactionAmount = -100_000_00
)

const MaxDescriptionLength = 300

// DescriptionPrediction is the description written on sampled outcome rows.
const DescriptionPrediction = "prediction"

// TransactionFilter narrows transaction queries. Nil fields are ignored.
// Date bounds are inclusive calendar dates.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	BudgetID   *uuid.UUID
	TagID      *uuid.UUID
	Income     *bool
	Transfer   *bool
	Prediction *bool
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) (*Transaction, error)
	// ListByUser returns the user's transactions matching filter, ordered by date.
	ListByUser(ctx context.Context, userID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error)
	SumByUser(ctx context.Context, userID uuid.UUID, filter *TransactionFilter) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID, filter *TransactionFilter) (int64, error)
	// ReplacePredictions deletes every prediction row for the user and inserts
	// the given rows in their place, atomically. A crash mid-run must never
	// leave a mix of old and new predictions.
	ReplacePredictions(ctx context.Context, userID uuid.UUID, txs []*Transaction) ([]*Transaction, error)
}
