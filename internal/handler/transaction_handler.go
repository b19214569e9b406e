package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
	"github.com/lcouture/pennywise/pennywise-backend/internal/util"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body.
// Amounts are integer cents, negative for money leaving the budget.
type CreateTransactionRequest struct {
	BudgetID    string   `json:"budgetId"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	Date        *string  `json:"date,omitempty"`
	Income      bool     `json:"income"`
	Transfer    bool     `json:"transfer"`
	TagIDs      []string `json:"tagIds,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string   `json:"id"`
	BudgetID    string   `json:"budgetId"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	Date        string   `json:"date"`
	Income      bool     `json:"income"`
	Transfer    bool     `json:"transfer"`
	Prediction  bool     `json:"prediction"`
	TagIDs      []string `json:"tagIds"`
	CreatedAt   string   `json:"createdAt"`
}

// CreateTransaction creates a new transaction on a leaf budget
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "budgetId", Message: "Must be a valid UUID"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(util.ISODateFormat, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	tagIDs, err := parseUUIDs(req.TagIDs)
	if err != nil {
		return NewValidationError(c, "Invalid tagIds", []ValidationError{
			{Field: "tagIds", Message: "Must be valid UUIDs"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, service.CreateTransactionInput{
		BudgetID:    budgetID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Income:      req.Income,
		Transfer:    req.Transfer,
		TagIDs:      tagIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		case errors.Is(err, domain.ErrTagNotFound):
			return NewNotFoundError(c, "Tag not found")
		case errors.Is(err, domain.ErrNodeOwnsTransactions):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "budgetId", Message: "Transactions can only be charged to leaf budgets"},
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", nil)
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions retrieves the caller's transactions, optionally filtered by
// date range, budget, tag, and flags.
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filter := &domain.TransactionFilter{}

	if start := c.QueryParam("start"); start != "" {
		parsed, err := time.Parse(util.ISODateFormat, start)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "start", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.StartDate = &parsed
	}
	if end := c.QueryParam("end"); end != "" {
		parsed, err := time.Parse(util.ISODateFormat, end)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "end", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.EndDate = &parsed
	}
	if budgetID := c.QueryParam("budget_id"); budgetID != "" {
		parsed, err := uuid.Parse(budgetID)
		if err != nil {
			return NewValidationError(c, "Invalid budget_id", nil)
		}
		filter.BudgetID = &parsed
	}
	if tagID := c.QueryParam("tag_id"); tagID != "" {
		parsed, err := uuid.Parse(tagID)
		if err != nil {
			return NewValidationError(c, "Invalid tag_id", nil)
		}
		filter.TagID = &parsed
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

	transactions, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		response = append(response, toTransactionResponse(transaction))
	}
	return c.JSON(http.StatusOK, response)
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	tagIDs := make([]string, 0, len(transaction.TagIDs))
	for _, tagID := range transaction.TagIDs {
		tagIDs = append(tagIDs, tagID.String())
	}
	return TransactionResponse{
		ID:          transaction.ID.String(),
		BudgetID:    transaction.BudgetID.String(),
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Date:        transaction.Date.Format(util.ISODateFormat),
		Income:      transaction.Income,
		Transfer:    transaction.Transfer,
		Prediction:  transaction.Prediction,
		TagIDs:      tagIDs,
		CreatedAt:   transaction.CreatedAt.Format(time.RFC3339),
	}
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
