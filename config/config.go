package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port             string        // Service port
	AppEnv           string        // Runtime environment: production, staging, development
	MockAuth         bool          // Explicit mock-auth flag for local development
	BackendAPIURL    string        // Code-generation / sandbox backend base URL
	BackendTimeout   time.Duration // Timeout for non-streaming backend calls
	SandboxTTL       time.Duration // How long a launched sandbox stays attributed to a user
	AuthSharedSecret string        // Shared secret guarding /internal endpoints
	PostHogAPIKey    string        // Analytics project API key (client session store)
	PostHogEndpoint  string        // Analytics ingestion endpoint
	ProjectID        string        // GCP project for Secret Manager, empty outside GCP
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:             getEnv("PORT", "8080"),
		AppEnv:           getEnv("APP_ENV", "production"),
		MockAuth:         getBoolEnv("MOCK_AUTH", false),
		BackendAPIURL:    getEnv("BACKEND_API_URL", "http://backend:8000"),
		BackendTimeout:   30 * time.Second,
		SandboxTTL:       10 * time.Minute, // Matches the backend's sandbox timeout
		AuthSharedSecret: getEnv("AUTH_SHARED_SECRET", ""),
		PostHogAPIKey:    getEnv("POSTHOG_API_KEY", ""),
		PostHogEndpoint:  getEnv("POSTHOG_ENDPOINT", "https://us.i.posthog.com"),
		ProjectID:        getEnv("PROJECT_ID", ""),
	}

	// Parse BACKEND_TIMEOUT if provided
	if timeoutStr := os.Getenv("BACKEND_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKEND_TIMEOUT format: %w", err)
		}
		config.BackendTimeout = duration
	}

	// Parse SANDBOX_TTL if provided
	if ttlStr := os.Getenv("SANDBOX_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SANDBOX_TTL format: %w", err)
		}
		config.SandboxTTL = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.BackendAPIURL == "" {
		return fmt.Errorf("BACKEND_API_URL cannot be empty")
	}

	if c.SandboxTTL <= 0 {
		return fmt.Errorf("SANDBOX_TTL must be positive")
	}

	return nil
}

// MockAuthEnabled reports whether the mock identity fallback may be used:
// either the explicit flag is set, or the runtime is flagged as development.
func (c *Config) MockAuthEnabled() bool {
	return c.MockAuth || c.AppEnv == "development"
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getBoolEnv retrieves a boolean environment variable or returns a fallback value
func getBoolEnv(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
