package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateTagRequest represents the create tag request body
type CreateTagRequest struct {
	Name string `json:"name"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// CreateTag creates a new tag for the caller
func (h *TagHandler) CreateTag(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.CreateTag(c.Request().Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is too long"},
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is reserved"},
			})
		case errors.Is(err, domain.ErrDuplicateName):
			return NewConflictError(c, "A tag with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to create tag")
		return NewInternalError(c, "Failed to create tag")
	}

	return c.JSON(http.StatusCreated, toTagResponse(tag))
}

// GetTags retrieves all tags for the caller
func (h *TagHandler) GetTags(c echo.Context) error {
	userID := middleware.GetUserID(c)

	tags, err := h.tagService.GetTags(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get tags")
		return NewInternalError(c, "Failed to get tags")
	}

	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, toTagResponse(tag))
	}
	return c.JSON(http.StatusOK, response)
}

func toTagResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID.String(),
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt.Format(time.RFC3339),
	}
}
