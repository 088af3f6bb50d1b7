package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SlotGranularity != 30*time.Minute {
		t.Errorf("SlotGranularity = %v, want 30m", cfg.SlotGranularity)
	}
	if cfg.DefaultOpenClock != "09:00" || cfg.DefaultCloseClock != "18:00" {
		t.Errorf("default clocks = %q/%q", cfg.DefaultOpenClock, cfg.DefaultCloseClock)
	}
	if cfg.AnalyticsCacheTTL != 2*time.Minute {
		t.Errorf("AnalyticsCacheTTL = %v, want 2m", cfg.AnalyticsCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SLOT_GRANULARITY", "15m")
	t.Setenv("BOOKING_RATE_LIMIT", "2.5")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.SlotGranularity != 15*time.Minute {
		t.Errorf("SlotGranularity = %v, want 15m", cfg.SlotGranularity)
	}
	if cfg.BookingRateLimit != 2.5 {
		t.Errorf("BookingRateLimit = %v, want 2.5", cfg.BookingRateLimit)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS = false, want true")
	}
}

func TestDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SLOT_GRANULARITY", "not-a-duration")
	cfg := Load()
	if cfg.SlotGranularity != 30*time.Minute {
		t.Errorf("SlotGranularity = %v, want default on parse failure", cfg.SlotGranularity)
	}
}
