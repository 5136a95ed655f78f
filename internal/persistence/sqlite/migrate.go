package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration pairs a schema version with the statements that establish it.
// Migrations are embedded rather than scanned from disk so a deployment is a
// single binary plus a database file.
type migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "create rooms table",
		SQL: `
			CREATE TABLE IF NOT EXISTS rooms (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				capacity INTEGER NOT NULL CHECK (capacity > 0),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
	{
		Version:     "002",
		Description: "create bookings table",
		SQL: `
			CREATE TABLE IF NOT EXISTS bookings (
				id TEXT PRIMARY KEY,
				room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				user_name TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			);
			CREATE INDEX IF NOT EXISTS idx_bookings_room_start
				ON bookings(room_id, start_time);
		`,
	},
}

// Migrate applies every pending migration in version order, each inside its
// own transaction, and records it in schema_migrations.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("sqlite: failed to initialize version table: %w", err)
	}

	for _, m := range migrations {
		applied, err := versionApplied(ctx, pool.DB(), m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("sqlite: migration %s (%s) failed: %w", m.Version, m.Description, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
				m.Version, m.Description, time.Now().UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("sqlite: failed to record migration %s: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func versionApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}
