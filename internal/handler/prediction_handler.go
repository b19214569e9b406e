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

// PredictionHandler handles prediction run HTTP requests
type PredictionHandler struct {
	predictorService *service.PredictorService
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(predictorService *service.PredictorService) *PredictionHandler {
	return &PredictionHandler{predictorService: predictorService}
}

// RunPredictionsResponse represents the result of a prediction run
type RunPredictionsResponse struct {
	Created int `json:"created"`
}

// RunPredictions regenerates the caller's predicted transactions from their
// configured analysis and prediction windows.
func (h *PredictionHandler) RunPredictions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	created, err := h.predictorService.RunFromSettings(c.Request().Context(), userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSettingsNotFound):
			return NewNotFoundError(c, "Settings not configured")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Prediction window is invalid", nil)
		}
		log.Error().Err(err).Msg("Failed to run predictions")
		return NewInternalError(c, "Failed to run predictions")
	}

	return c.JSON(http.StatusOK, RunPredictionsResponse{Created: len(created)})
}
