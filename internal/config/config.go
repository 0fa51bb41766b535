// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend selects where blog posts live.
const (
	// BackendPostgres keeps posts in the panel's own PostgreSQL database.
	BackendPostgres = "postgres"
	// BackendREST talks to a hosted PostgREST-style data service.
	BackendREST = "rest"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Posts backend
	Backend string // BackendPostgres or BackendREST

	// Hosted data service (Backend == BackendREST)
	GatewayURL   string
	GatewayKey   string
	GatewayTable string

	// PostgreSQL connection (users always; posts when Backend == BackendPostgres)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Panel behavior
	PageSize         int
	WindowTTL        time.Duration
	ToastHideAfter   time.Duration
	ToastRemoveAfter time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		Backend: envOrDefault("POSTS_BACKEND", BackendPostgres),

		GatewayURL:   os.Getenv("GATEWAY_URL"),
		GatewayKey:   os.Getenv("GATEWAY_KEY"),
		GatewayTable: envOrDefault("GATEWAY_TABLE", "blog_list"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "blogpanel"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "blogpanel"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		PageSize:         envOrDefaultInt("PANEL_PAGE_SIZE", 4),
		WindowTTL:        envOrDefaultDuration("PANEL_WINDOW_TTL", 30*time.Second),
		ToastHideAfter:   envOrDefaultDuration("PANEL_TOAST_HIDE", 3000*time.Millisecond),
		ToastRemoveAfter: envOrDefaultDuration("PANEL_TOAST_REMOVE", 3500*time.Millisecond),
	}

	if cfg.Backend != BackendPostgres && cfg.Backend != BackendREST {
		return nil, fmt.Errorf("POSTS_BACKEND must be %q or %q, got %q", BackendPostgres, BackendREST, cfg.Backend)
	}
	if cfg.Backend == BackendREST && cfg.GatewayURL == "" {
		return nil, fmt.Errorf("GATEWAY_URL must be set when POSTS_BACKEND=rest")
	}
	if cfg.ToastRemoveAfter < cfg.ToastHideAfter {
		return nil, fmt.Errorf("PANEL_TOAST_REMOVE must not be shorter than PANEL_TOAST_HIDE")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable. Unset, empty, or
// non-positive values fall back.
func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// envOrDefaultDuration reads a duration environment variable (e.g. "3s",
// "500ms"). Unset or malformed values fall back.
func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
