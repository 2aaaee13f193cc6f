package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/leastlogic/fwlookup/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CHROME_USER_DATA_DIR", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.WebDriverURL != "http://localhost:9515" {
		t.Fatalf("expected default webdriver URL, got %s", cfg.WebDriverURL)
	}

	if cfg.LoginTimeout != 5*time.Minute {
		t.Fatalf("expected default login timeout 5m, got %s", cfg.LoginTimeout)
	}

	if cfg.ConsoleAddr != "127.0.0.1:8420" {
		t.Fatalf("expected default console addr, got %s", cfg.ConsoleAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("WEBDRIVER_URL", "http://localhost:4444")
	t.Setenv("PLAN_LINK_TEXT", "ACME RETIREMENT PLAN")
	t.Setenv("LOGIN_TIMEOUT", "90s")
	t.Setenv("ACCOUNT_NAME", "Acme 401k")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.WebDriverURL != "http://localhost:4444" {
		t.Fatalf("expected custom webdriver URL, got %s", cfg.WebDriverURL)
	}

	if cfg.PlanLinkText != "ACME RETIREMENT PLAN" {
		t.Fatalf("expected plan link override, got %s", cfg.PlanLinkText)
	}

	if cfg.LoginTimeout != 90*time.Second {
		t.Fatalf("expected login timeout override, got %s", cfg.LoginTimeout)
	}

	if cfg.AccountName != "Acme 401k" {
		t.Fatalf("expected account name override, got %s", cfg.AccountName)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("RENDER_TIMEOUT")
	t.Setenv("RENDER_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("RENDER_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
