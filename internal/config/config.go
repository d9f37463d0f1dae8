// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Port      string
	Address   string
	Env       string
	LogLevel  string
	LogFormat string

	// Storage
	StoreDriver string // memory | sqlite | postgres
	DBDSN       string // postgres DSN, used when StoreDriver == postgres
	SQLitePath  string

	// Outbound AI service (optional)
	GeminiBaseURL    string
	GeminiAPIKey     string
	AITimeoutSeconds int

	// Periodic backup (disabled when path is empty)
	BackupPath          string
	BackupIntervalHours int

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int64
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnvWithDefault("PORT", "8080"),
		Address:   getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:       getEnvWithDefault("ENV", "dev"),
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		StoreDriver: getEnvWithDefault("STORE_DRIVER", DriverMemory),
		DBDSN:       os.Getenv("DB_DSN"),
		SQLitePath:  getEnvWithDefault("SQLITE_PATH", "fever-tracker.db"),

		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		AITimeoutSeconds: getIntEnvWithDefault("AI_TIMEOUT_SECONDS", 10),

		BackupPath:          os.Getenv("BACKUP_PATH"),
		BackupIntervalHours: getIntEnvWithDefault("BACKUP_INTERVAL_HOURS", 12),

		RateLimitRPS:   getFloatEnvWithDefault("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getInt64EnvWithDefault("RATE_LIMIT_BURST", 100),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %q (want memory, sqlite or postgres)", cfg.StoreDriver)
	}

	if cfg.StoreDriver == DriverPostgres && cfg.DBDSN == "" {
		return fmt.Errorf("STORE_DRIVER=postgres requires DB_DSN")
	}
	if cfg.StoreDriver == DriverSQLite && cfg.SQLitePath == "" {
		return fmt.Errorf("STORE_DRIVER=sqlite requires SQLITE_PATH")
	}

	if cfg.AITimeoutSeconds < 1 || cfg.AITimeoutSeconds > 120 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be between 1 and 120")
	}
	if cfg.BackupIntervalHours < 1 || cfg.BackupIntervalHours > 168 {
		return fmt.Errorf("BACKUP_INTERVAL_HOURS must be between 1 and 168")
	}
	if cfg.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0")
	}
	if cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be > 0")
	}

	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

func getEnvWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnvWithDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getInt64EnvWithDefault(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnvWithDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
