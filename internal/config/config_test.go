package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("expected default memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.AITimeoutSeconds != 10 {
		t.Fatalf("expected default AI timeout 10s, got %d", cfg.AITimeoutSeconds)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		t.Fatalf("expected positive rate limit defaults, got %v/%v", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "99999")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range port")
	}

	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}

func TestLoad_InvalidStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER in error, got %v", err)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("DB_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for postgres without DSN")
	}

	t.Setenv("DB_DSN", "postgres://localhost/fever")
	if _, err := Load(); err != nil {
		t.Fatalf("expected valid config with DSN, got %v", err)
	}
}

func TestLoad_BoundsChecks(t *testing.T) {
	t.Setenv("AI_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero AI timeout")
	}
	t.Setenv("AI_TIMEOUT_SECONDS", "10")

	t.Setenv("BACKUP_INTERVAL_HOURS", "200")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for oversized backup interval")
	}
	t.Setenv("BACKUP_INTERVAL_HOURS", "12")

	t.Setenv("RATE_LIMIT_RPS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative rate limit")
	}
}
