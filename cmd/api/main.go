package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lcouture/pennywise/pennywise-backend/internal/config"
	"github.com/lcouture/pennywise/pennywise-backend/internal/handler"
	"github.com/lcouture/pennywise/pennywise-backend/internal/middleware"
	"github.com/lcouture/pennywise/pennywise-backend/internal/repository/postgres"
	"github.com/lcouture/pennywise/pennywise-backend/internal/service"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	budgetRepo := postgres.NewBudgetRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	settingsRepo := postgres.NewUserSettingsRepository(pool)

	// Initialize services
	budgetService := service.NewBudgetService(budgetRepo)
	tagService := service.NewTagService(tagRepo)
	transactionService := service.NewTransactionService(transactionRepo, budgetRepo, tagRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	balanceService := service.NewBalanceService(budgetRepo, transactionRepo)
	reportService := service.NewReportService(budgetRepo, tagRepo, transactionRepo, balanceService)
	predictorService := service.NewPredictorService(budgetRepo, tagRepo, transactionRepo, settingsRepo)

	// Start background prediction regeneration
	predictorWorker := service.NewPredictorWorker(predictorService, settingsRepo, log.Logger, cfg.PredictorInterval)
	predictorWorker.Start(context.Background())
	defer predictorWorker.Stop()

	// Initialize middleware
	userMiddleware := middleware.NewUserMiddleware()
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.ReportRateLimit, cfg.ReportBurstSize)
	defer rateLimiter.Stop()

	// Initialize handlers
	budgetHandler := handler.NewBudgetHandler(budgetService, balanceService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	tagHandler := handler.NewTagHandler(tagService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	reportHandler := handler.NewReportHandler(reportService)
	predictionHandler := handler.NewPredictionHandler(predictorService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.UserIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, userMiddleware, rateLimiter, budgetHandler, transactionHandler, tagHandler, settingsHandler, reportHandler, predictionHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
