package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/testutil"
)

func TestCreateTag(t *testing.T) {
	svc := NewTagService(testutil.NewMockTagRepository())
	userID := uuid.New()

	tag, err := svc.CreateTag(context.Background(), userID, "  doritos  ")
	require.NoError(t, err)
	assert.Equal(t, "doritos", tag.Name)
	assert.Equal(t, userID, tag.UserID)
}

func TestCreateTagValidation(t *testing.T) {
	svc := NewTagService(testutil.NewMockTagRepository())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, userID, "")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.CreateTag(ctx, userID, strings.Repeat("x", domain.MaxTagNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	// Reserved tags belong to the predictor
	for _, name := range []string{domain.TagIncome, domain.TagTransfer, domain.TagPaycheque} {
		_, err = svc.CreateTag(ctx, userID, name)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err = svc.CreateTag(ctx, userID, "doritos")
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, userID, "doritos")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}
