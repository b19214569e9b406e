package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService  *service.BudgetService
	balanceService *service.BalanceService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, balanceService *service.BalanceService) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		balanceService: balanceService,
	}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Name              string  `json:"name"`
	ParentID          *string `json:"parentId,omitempty"`
	IsNode            bool    `json:"isNode"`
	MonthlyAllocation int64   `json:"monthlyAllocation"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ParentID          *string `json:"parentId,omitempty"`
	IsNode            bool    `json:"isNode"`
	MonthlyAllocation int64   `json:"monthlyAllocation"`
	Balance           *int64  `json:"balance,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}

// CreateBudget creates a new budget in the caller's tree
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return NewValidationError(c, "Invalid parentId", []ValidationError{
				{Field: "parentId", Message: "Must be a valid UUID"},
			})
		}
		parentID = &parsed
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, service.CreateBudgetInput{
		Name:              req.Name,
		ParentID:          parentID,
		IsNode:            req.IsNode,
		MonthlyAllocation: req.MonthlyAllocation,
	})
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
		case errors.Is(err, domain.ErrRootImmutable):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is reserved"},
			})
		case errors.Is(err, domain.ErrDuplicateName):
			return NewConflictError(c, "A budget with this name already exists")
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Parent budget not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "parentId", Message: "Parent must be a node budget"},
			})
		}
		log.Error().Err(err).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget, nil))
}

// GetBudgets retrieves all budgets for the caller
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	budgets, err := h.budgetService.GetBudgets(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	response := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget, nil))
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget retrieves a single budget with its rolled-up balance
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	ctx := c.Request().Context()
	budget, err := h.budgetService.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	balance, err := h.balanceService.Balance(ctx, budget, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute budget balance")
		return NewInternalError(c, "Failed to compute budget balance")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget, &balance))
}

func toBudgetResponse(budget *domain.Budget, balance *int64) BudgetResponse {
	var parentID *string
	if budget.ParentID != nil {
		id := budget.ParentID.String()
		parentID = &id
	}
	return BudgetResponse{
		ID:                budget.ID.String(),
		Name:              budget.Name,
		ParentID:          parentID,
		IsNode:            budget.IsNode,
		MonthlyAllocation: budget.MonthlyAllocation,
		Balance:           balance,
		CreatedAt:         budget.CreatedAt.Format(time.RFC3339),
	}
}
