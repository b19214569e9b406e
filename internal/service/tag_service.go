package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// TagService handles tag business logic
type TagService struct {
	tagRepo domain.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo domain.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// CreateTag creates a new user-scoped tag. Reserved tag names are managed by
// the predictor and cannot be created by hand.
func (s *TagService) CreateTag(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxTagNameLength {
		return nil, domain.ErrNameTooLong
	}
	if domain.IsDefaultTag(name) {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.tagRepo.GetByName(ctx, userID, name); err == nil {
		return nil, domain.ErrDuplicateName
	} else if !errors.Is(err, domain.ErrTagNotFound) {
		return nil, err
	}

	return s.tagRepo.Create(ctx, &domain.Tag{UserID: userID, Name: name})
}

// GetTags retrieves all tags for a user
func (s *TagService) GetTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	return s.tagRepo.ListByUser(ctx, userID)
}
