package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.TargetURL != defaultTargetURL {
		t.Errorf("TargetURL = %q", cfg.TargetURL)
	}
	if cfg.MinPrice != 5.0 {
		t.Errorf("MinPrice = %v, want 5.0", cfg.MinPrice)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("MIN_PRICE", "10.5")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MinPrice != 10.5 {
		t.Errorf("MinPrice = %v", cfg.MinPrice)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MIN_PRICE", "not-a-number")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinPrice != 5.0 {
		t.Errorf("MinPrice = %v, want default", cfg.MinPrice)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want default", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsNegativeMinPrice(t *testing.T) {
	t.Setenv("MIN_PRICE", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative MIN_PRICE")
	}
}
