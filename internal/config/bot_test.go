package config

import (
	"testing"
	"time"
)

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("BaseURL = %q, want http://localhost:8080", cfg.BaseURL)
	}
	if cfg.Rounds != 20 {
		t.Fatalf("Rounds = %d, want 20", cfg.Rounds)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("BOT_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("BOT_USERNAME", "spinner")
	t.Setenv("BOT_PAUSE", "1s")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:9000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Username != "spinner" || cfg.Pause != time.Second {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
