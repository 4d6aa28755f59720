package config_test

import (
	"testing"
	"time"

	"github.com/iho/bachatbox/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageBackend != config.StorageMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.StorageBackend)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.RetentionMaxPerUser != 1000 || cfg.RetentionTTL != 720*time.Hour {
		t.Fatalf("unexpected retention defaults: %d %s", cfg.RetentionMaxPerUser, cfg.RetentionTTL)
	}

	if cfg.WebhookDefaultUser != "default" {
		t.Fatalf("expected default webhook user, got %q", cfg.WebhookDefaultUser)
	}

	if cfg.UsesRedis() || cfg.ReceiptsEnabled() || cfg.StrictHints {
		t.Fatalf("expected optional features to be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("IDEMPOTENCY_ENABLED", "true")
	t.Setenv("STRICT_HINTS", "true")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("RETENTION_MAX_PER_USER", "50")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageBackend != config.StoragePostgres || cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected postgres overrides, got %s %s", cfg.StorageBackend, cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" || !cfg.UsesRedis() {
		t.Fatalf("expected redis to be in use, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if !cfg.StrictHints || !cfg.ReceiptsEnabled() || cfg.RetentionMaxPerUser != 50 {
		t.Fatalf("expected feature overrides, got %+v", cfg)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsInconsistentSettings(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown backend":     {"STORAGE_BACKEND": "sqlite"},
		"auth without secret": {"AUTH_ENABLED": "true", "JWT_SECRET": ""},
		"zero retention":      {"RETENTION_MAX_PER_USER": "0"},
		"zero rate":           {"RATE_LIMIT_RPS": "0"},
	}

	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
