package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// ReportHandler handles report generation HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportResponse represents a generated report. Data is a flat series of
// bucket values for single-series kinds and a map keyed by entity ID for
// multi-series kinds, aligned with Dates either way.
type ReportResponse struct {
	Dates []string    `json:"dates"`
	Data  interface{} `json:"data"`
}

// GetReport generates the report named by the path parameter over the
// caller's transactions.
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	kind := domain.ReportKind(c.Param("kind"))
	if !kind.Valid() {
		return NewValidationError(c, "Unknown report kind", []ValidationError{
			{Field: "kind", Message: "Must be a valid report kind"},
		})
	}

	sizeParam := c.QueryParam("time_bucket_size")
	if sizeParam == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "time_bucket_size", Message: "time_bucket_size is required"},
		})
	}
	size := domain.TimeBucketSize(sizeParam)
	if !size.Valid() {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "time_bucket_size", Message: "Invalid time_bucket_size"},
		})
	}

	rng, rangeErrors := parseRange(c)
	if rangeErrors != nil {
		return NewValidationError(c, "Invalid date range", rangeErrors)
	}

	var err error
	filter := service.ReportFilter{}
	if filter.BudgetIDs, err = parseUUIDs(c.QueryParams()["budget_id"]); err != nil {
		return NewValidationError(c, "Invalid budget_id", nil)
	}
	if filter.TagIDs, err = parseUUIDs(c.QueryParams()["tag_id"]); err != nil {
		return NewValidationError(c, "Invalid tag_id", nil)
	}
	for _, flag := range []struct {
		name   string
		target **bool
	}{
		{"income", &filter.Income},
		{"transfer", &filter.Transfer},
		{"prediction", &filter.Prediction},
	} {
		if value := c.QueryParam(flag.name); value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return NewValidationError(c, "Invalid "+flag.name, nil)
			}
			*flag.target = &parsed
		}
	}

	report, err := h.reportService.Generate(c.Request().Context(), userID, kind, rng, size, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", nil)
		}
		log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to generate report")
		return NewInternalError(c, "Failed to generate report")
	}

	return c.JSON(http.StatusOK, ReportResponse{Dates: report.Dates, Data: report.Data})
}

// parseRange reads the optional start/end query parameters. Both must be
// present for an explicit range and in calendar order; with neither the
// report derives its range from the data.
func parseRange(c echo.Context) (*domain.DateRange, []ValidationError) {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		missing := "start"
		if end == "" {
			missing = "end"
		}
		return nil, []ValidationError{{Field: missing, Message: "start and end must be given together"}}
	}

	startDate, err := time.Parse(util.ISODateFormat, start)
	if err != nil {
		return nil, []ValidationError{{Field: "start", Message: "Must be in YYYY-MM-DD format"}}
	}
	endDate, err := time.Parse(util.ISODateFormat, end)
	if err != nil {
		return nil, []ValidationError{{Field: "end", Message: "Must be in YYYY-MM-DD format"}}
	}
	if endDate.Before(startDate) {
		return nil, []ValidationError{{Field: "end", Message: "Must not be before start"}}
	}
	return &domain.DateRange{Start: startDate, End: endDate}, nil
}
