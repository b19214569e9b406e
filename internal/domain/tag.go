package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Default tags created for every user. The predictor relies on these names.
const (
	TagIncome    = "income"
	TagTransfer  = "transfer"
	TagPaycheque = "paycheque"
)

// Tag is a user-scoped label attached to zero or more transactions.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

const MaxTagNameLength = 30

// IsDefaultTag reports whether name is one of the reserved tag names.
func IsDefaultTag(name string) bool {
	return name == TagIncome || name == TagTransfer || name == TagPaycheque
}

type TagRepository interface {
	Create(ctx context.Context, tag *Tag) (*Tag, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Tag, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Tag, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID, name string) (*Tag, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Tag, error)
}
