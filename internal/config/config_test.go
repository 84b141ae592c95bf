package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS", "DATABASE_URL", "SNAPSHOT_TTL_MINUTES", "SEAT_TOKEN_TTL_HOURS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected empty database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.SnapshotTTL != time.Hour || cfg.SeatTokenTTL != 24*time.Hour {
		t.Fatalf("unexpected TTLs: snapshot=%v seat=%v", cfg.SnapshotTTL, cfg.SeatTokenTTL)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:5173"}) {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://four.example.com/")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("CLEANUP_INTERVAL_MINUTES", "3")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.FrontendURL != "https://four.example.com" {
		t.Fatalf("expected trimmed frontend URL, got %q", cfg.FrontendURL)
	}
	want := []string{"https://four.example.com", "http://localhost:5173", "https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("origins:\n got  %v\n want %v", cfg.AllowedOrigins, want)
	}
	if cfg.CleanupInterval != 3*time.Minute {
		t.Fatalf("expected 3m cleanup interval, got %v", cfg.CleanupInterval)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("invalid integer should fall back to default, got %d", cfg.DBMaxOpenConns)
	}
}
