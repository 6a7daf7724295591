package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	// Server Config
	Port        string
	Environment string
	LogLevel    string

	DatabasePath string

	// Per-client request limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream calls per minute allowed towards the provider. Zero disables
	// the throttle.
	UpstreamMaxRPM int
}

// NewFromEnv creates a new Config object from environment variables.
// GEMINI_API_KEY is read but not required here: the server answers requests
// with a configuration error while it is missing, and the CLI checks it with
// RequireGeminiAPIKey before calling the provider.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabasePath:      getEnv("DINNER_DB_PATH", "data/dinner-planner.db"),
		RateLimitRequests: 10,
		RateLimitWindow:   60 * time.Second,
	}

	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be a positive integer, got %q", v)
		}
		cfg.RateLimitRequests = n
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be a positive integer, got %q", v)
		}
		cfg.RateLimitWindow = time.Duration(n) * time.Second
	}

	if v := os.Getenv("UPSTREAM_MAX_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("UPSTREAM_MAX_RPM must be a non-negative integer, got %q", v)
		}
		cfg.UpstreamMaxRPM = n
	}

	return cfg, nil
}

// RequireGeminiAPIKey returns an error when the Gemini credential is not configured.
func (c *Config) RequireGeminiAPIKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}

// IsProduction reports whether the application runs in production mode.
// Outside production, failed generations include the raw upstream error in
// the response message.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
