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

// TagRepository implements domain.TagRepository using PostgreSQL
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

const tagColumns = `id, user_id, name, created_at`

// Create creates a new tag
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO tags (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING `+tagColumns,
		pgUUID(tag.ID), pgUUID(tag.UserID), tag.Name,
	)
	return scanTag(row)
}

// GetByID retrieves a tag by ID for a user
func (r *TagRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND id = $2`,
		pgUUID(userID), pgUUID(id),
	)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// GetByName retrieves a tag by name for a user
func (r *TagRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND name = $2`,
		pgUUID(userID), name,
	)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// GetOrCreate retrieves the user's tag by name, creating it if absent
func (r *TagRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tags (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO NOTHING`,
		pgUUID(uuid.New()), pgUUID(userID), name,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByName(ctx, userID, name)
}

// ListByUser retrieves all tags for a user, ordered by name
func (r *TagRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tagColumns+` FROM tags WHERE user_id = $1 ORDER BY name`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func scanTag(row pgx.Row) (*domain.Tag, error) {
	var (
		id, userID pgtype.UUID
		createdAt  pgtype.Timestamptz
		tag        domain.Tag
	)
	if err := row.Scan(&id, &userID, &tag.Name, &createdAt); err != nil {
		return nil, err
	}
	tag.ID = fromPgUUID(id)
	tag.UserID = fromPgUUID(userID)
	tag.CreatedAt = createdAt.Time
	return &tag, nil
}
