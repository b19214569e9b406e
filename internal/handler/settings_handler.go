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
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// SettingsHandler handles predictor settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request body
type UpdateSettingsRequest struct {
	ExpectedMonthlyNetIncome int64  `json:"expectedMonthlyNetIncome"`
	IncomeFrequencyDays      int    `json:"incomeFrequencyDays"`
	AnalyzeStart             string `json:"analyzeStart"`
	PredictEnd               string `json:"predictEnd"`
}

// SettingsResponse represents user settings in API responses
type SettingsResponse struct {
	ExpectedMonthlyNetIncome int64  `json:"expectedMonthlyNetIncome"`
	IncomeFrequencyDays      int    `json:"incomeFrequencyDays"`
	AnalyzeStart             string `json:"analyzeStart"`
	PredictEnd               string `json:"predictEnd"`
}

// GetSettings retrieves the caller's predictor settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)

	settings, err := h.settingsService.GetSettings(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return NewNotFoundError(c, "Settings not configured")
		}
		log.Error().Err(err).Msg("Failed to get settings")
		return NewInternalError(c, "Failed to get settings")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings stores the caller's predictor settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	analyzeStart, err := time.Parse(util.ISODateFormat, req.AnalyzeStart)
	if err != nil {
		return NewValidationError(c, "Invalid analyzeStart", []ValidationError{
			{Field: "analyzeStart", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	predictEnd, err := time.Parse(util.ISODateFormat, req.PredictEnd)
	if err != nil {
		return NewValidationError(c, "Invalid predictEnd", []ValidationError{
			{Field: "predictEnd", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	settings, err := h.settingsService.UpdateSettings(c.Request().Context(), userID, service.UpdateSettingsInput{
		ExpectedMonthlyNetIncome: req.ExpectedMonthlyNetIncome,
		IncomeFrequencyDays:      req.IncomeFrequencyDays,
		AnalyzeStart:             analyzeStart,
		PredictEnd:               predictEnd,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", nil)
		}
		log.Error().Err(err).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(settings *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		ExpectedMonthlyNetIncome: settings.ExpectedMonthlyNetIncome,
		IncomeFrequencyDays:      settings.IncomeFrequencyDays,
		AnalyzeStart:             settings.AnalyzeStart.Format(util.ISODateFormat),
		PredictEnd:               settings.PredictEnd.Format(util.ISODateFormat),
	}
}
