package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	StorageTimeout time.Duration
	CacheTTL       time.Duration
	SeedRooms      bool
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is read first when present; real
// environment variables take precedence over its entries. Optional fields
// fall back to sensible defaults, malformed values are reported by name.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:booking.db?_foreign_keys=on",
		StorageTimeout: 5 * time.Second,
		CacheTTL:       15 * time.Second,
		SeedRooms:      true,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("BOOKING_STORAGE_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "BOOKING_STORAGE_TIMEOUT")
		} else {
			cfg.StorageTimeout = timeout
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_CACHE_TTL")
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if seedValue := strings.TrimSpace(os.Getenv("BOOKING_SEED_ROOMS")); seedValue != "" {
		seed, err := strconv.ParseBool(seedValue)
		if err != nil {
			invalid = append(invalid, "BOOKING_SEED_ROOMS")
		} else {
			cfg.SeedRooms = seed
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
