package server

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	want := Config{
		Addr:            ":8080",
		SessionTimeout:  time.Hour,
		CleanupInterval: 5 * time.Minute,
		RequireSession:  true,
		LogLevel:        "info",
	}
	if cfg != want {
		t.Errorf("Unexpected defaults: got %+v, want %+v", cfg, want)
	}
}

func TestDefaultConfig_UsableDurations(t *testing.T) {
	cfg := DefaultConfig()

	// Both feed time.NewTicker and context.WithTimeout, which reject
	// non-positive durations.
	if cfg.SessionTimeout <= 0 {
		t.Errorf("SessionTimeout must be positive, got %v", cfg.SessionTimeout)
	}
	if cfg.CleanupInterval <= 0 {
		t.Errorf("CleanupInterval must be positive, got %v", cfg.CleanupInterval)
	}
	if cfg.CleanupInterval > cfg.SessionTimeout {
		t.Errorf("Sweep interval %v exceeds session timeout %v, expired sessions would linger",
			cfg.CleanupInterval, cfg.SessionTimeout)
	}
}
