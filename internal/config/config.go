package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Predictor
	PredictorInterval time.Duration

	// Rate limiting for report generation
	ReportRateLimit int
	ReportBurstSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	predictorInterval, err := time.ParseDuration(getEnv("PREDICTOR_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREDICTOR_INTERVAL: %w", err)
	}

	reportRateLimit, err := strconv.Atoi(getEnv("REPORT_RATE_LIMIT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_RATE_LIMIT: %w", err)
	}
	reportBurstSize, err := strconv.Atoi(getEnv("REPORT_BURST_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_BURST_SIZE: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:               getEnv("ENV", "development"),
		PredictorInterval: predictorInterval,
		ReportRateLimit:   reportRateLimit,
		ReportBurstSize:   reportBurstSize,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
