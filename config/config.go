// Package config loads SDK configuration from environment variables for the
// CLI and other standalone callers. Library users construct client.Config
// directly instead.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the SDK configuration loaded from environment variables.
// Required fields are validated at load time for fail-fast behavior.
type Config struct {
	// Trading API
	APIURL    string
	SubmitURL string

	// Solana RPC endpoint for pre-flight balance checks (optional)
	RPCURL string

	// Bundle submissions per second
	RateLimit int

	// Diagnostics
	Debug    bool
	LogLevel string

	// Optional collaborators
	NATSURL     string
	DatabaseURL string
}

// Load reads configuration from environment variables and validates required
// fields.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.APIURL = os.Getenv("TRADEWIND_API_URL")
	if cfg.APIURL == "" {
		errs = append(errs, fmt.Errorf("TRADEWIND_API_URL is required"))
	}

	cfg.SubmitURL = os.Getenv("TRADEWIND_SUBMIT_URL")
	cfg.RPCURL = os.Getenv("TRADEWIND_RPC_URL")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	rateLimit, err := parseInt("TRADEWIND_RATE_LIMIT", 2)
	if err != nil {
		errs = append(errs, err)
	} else if rateLimit < 1 {
		errs = append(errs, fmt.Errorf("TRADEWIND_RATE_LIMIT must be at least 1, got %d", rateLimit))
	} else {
		cfg.RateLimit = rateLimit
	}

	debug, err := parseBool("TRADEWIND_DEBUG", false)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.Debug = debug
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}
	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}

// parseBool parses a boolean from an environment variable or uses a default.
func parseBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return result, nil
}
