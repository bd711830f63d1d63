package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Constants
const (
	DefaultPort        = 8080
	DefaultProductID   = "-//Winterberg//Perennial Kalender//EN"
	DefaultTimezone    = "Europe/Berlin"
	DefaultPublishTTL  = "PT1H"
	DefaultLogLevel    = "info"
	DefaultEnvironment = "development"

	// Error messages
	ErrInvalidDateFormat    = "Invalid date format"
	ErrInvalidYear          = "Invalid year"
	ErrInvalidFormat        = "Invalid format"
	ErrInvalidDays          = "Invalid number of days"
	ErrInvalidMonth         = "Invalid month"
	ErrInternalServer       = "Internal server error"
	ErrFailedToGenerateJSON = "Failed to generate JSON"

	// Mode strings
	ModeServe   = "serve"
	ModeConvert = "convert"

	// Years published by the subscription feed, starting with the previous year.
	SubscribeYears = 3
)

// Config holds the service configuration.
type Config struct {
	Port        int
	LogLevel    string
	Environment string

	// ICS settings
	ProductID  string
	Timezone   string
	PublishTTL string
}

// LoadConfig reads configuration from environment variables and a .env
// file in the working directory, if there is one. Variables that are
// already set take precedence over the .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.Environment = envOr("ENVIRONMENT", cfg.Environment)
	cfg.ProductID = envOr("ICS_PRODUCT_ID", cfg.ProductID)
	cfg.Timezone = envOr("ICS_TIMEZONE", cfg.Timezone)
	cfg.PublishTTL = envOr("SUBSCRIBE_TTL", cfg.PublishTTL)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", portStr)
		}
		cfg.Port = port
	}

	if !strings.HasPrefix(cfg.PublishTTL, "P") {
		return nil, fmt.Errorf("invalid SUBSCRIBE_TTL %q (expected an ISO 8601 duration such as PT1H)", cfg.PublishTTL)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Port:        DefaultPort,
		LogLevel:    DefaultLogLevel,
		Environment: DefaultEnvironment,
		ProductID:   DefaultProductID,
		Timezone:    DefaultTimezone,
		PublishTTL:  DefaultPublishTTL,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
