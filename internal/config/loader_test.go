package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"BOOKING_HTTP_PORT",
			"BOOKING_SQLITE_DSN",
			"BOOKING_STORAGE_TIMEOUT",
			"BOOKING_CACHE_TTL",
			"BOOKING_SEED_ROOMS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:booking.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.StorageTimeout != 5*time.Second {
			t.Fatalf("expected default storage timeout 5s, got %s", cfg.StorageTimeout)
		}
		if !cfg.SeedRooms {
			t.Fatal("expected seeding enabled by default")
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("BOOKING_HTTP_PORT", "9090")
		t.Setenv("BOOKING_SQLITE_DSN", "file:/tmp/booking.db")
		t.Setenv("BOOKING_STORAGE_TIMEOUT", "2s")
		t.Setenv("BOOKING_CACHE_TTL", "30s")
		t.Setenv("BOOKING_SEED_ROOMS", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/booking.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.StorageTimeout != 2*time.Second {
			t.Fatalf("expected storage timeout 2s, got %s", cfg.StorageTimeout)
		}
		if cfg.CacheTTL != 30*time.Second {
			t.Fatalf("expected cache TTL 30s, got %s", cfg.CacheTTL)
		}
		if cfg.SeedRooms {
			t.Fatal("expected seeding disabled")
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Setenv("BOOKING_HTTP_PORT", "not-a-port")
		t.Setenv("BOOKING_STORAGE_TIMEOUT", "-1s")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for malformed values")
		}
		expected := "invalid environment variable values: BOOKING_HTTP_PORT, BOOKING_STORAGE_TIMEOUT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
