package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "tg-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("REQUEST_TIMEOUT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TelegramAPIKey != "tg-token" {
		t.Errorf("TelegramAPIKey = %q", cfg.TelegramAPIKey)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing TELEGRAM_API_KEY")
	}
}

func TestLoad_DefaultTimeout(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "tg-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want default 30s", cfg.RequestTimeout)
	}
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "tg-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("REQUEST_TIMEOUT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want default 30s", cfg.RequestTimeout)
	}
}
