// Package config provides environment configuration for the messaging client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Backend API. The token may be empty for commands that never call the
	// backend (the stub server); the messenger checks it at startup.
	APIBaseURL  string        `validate:"required,url"`
	BearerToken string
	HTTPTimeout time.Duration `validate:"required"`

	// Polling
	PollInterval time.Duration `validate:"min=1s"`

	// Stub server (local development backend)
	StubPort          string
	StubJWTSecret     string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Metrics (empty disables the endpoint)
	MetricsPort string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment, honoring a .env file if one
// is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Backend API
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080"),
		BearerToken: getEnv("API_BEARER_TOKEN", ""),
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 15*time.Second),

		// Polling
		PollInterval: getDurationEnv("POLL_INTERVAL", 15*time.Second),

		// Stub server
		StubPort:          getEnv("STUB_PORT", "8080"),
		StubJWTSecret:     getEnv("STUB_JWT_SECRET", "development-secret-change-in-production"),
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Metrics
		MetricsPort: getEnv("METRICS_PORT", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
