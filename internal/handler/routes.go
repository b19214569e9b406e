package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, userMiddleware *middleware.UserMiddleware, rateLimiter *middleware.RateLimiter, budgetHandler *BudgetHandler, transactionHandler *TransactionHandler, tagHandler *TagHandler, settingsHandler *SettingsHandler, reportHandler *ReportHandler, predictionHandler *PredictionHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(userMiddleware.Identify())

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)

	// Tag routes
	tags := api.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetTags)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	// Report routes (rate limited, report generation is the expensive surface)
	reports := api.Group("/reports")
	reports.Use(middleware.RateLimitMiddleware(rateLimiter))
	reports.GET("/:kind", reportHandler.GetReport)

	// Prediction routes
	predictions := api.Group("/predictions")
	predictions.POST("/run", predictionHandler.RunPredictions)
}
