// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases, always absolute
	Port     int
	LogLevel string
	DevMode  bool

	// Analytics defaults. These are threaded explicitly into the analytics
	// engine; the engine itself holds no ambient defaults.
	RiskFreeRate        float64 // Annual risk-free rate as a decimal (0.03 = 3%)
	MetricsLookbackDays int     // Return observations used for risk metrics
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("STOCKFOLIO_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		Port:                getEnvAsInt("PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 0.03),
		MetricsLookbackDays: getEnvAsInt("METRICS_LOOKBACK_DAYS", 252),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MetricsLookbackDays <= 0 {
		return fmt.Errorf("metrics lookback must be positive, got %d", c.MetricsLookbackDays)
	}
	if c.RiskFreeRate < 0 {
		return fmt.Errorf("risk-free rate must not be negative, got %f", c.RiskFreeRate)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
