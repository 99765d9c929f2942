// Package turso persists activity events in a libsql database: a local
// file under the data dir by default, or a remote instance when
// PROLIFIC_DATABASE_URL is configured.
package turso

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// DB wraps the sql handle so call sites don't depend on the driver name.
type DB struct {
	*sql.DB
}

// NewDB opens the database at connStr and verifies the connection.
func NewDB(connStr string) (*DB, error) {
	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Best effort: remote libsql ignores these.
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{DB: db}, nil
}

// InitSchema creates all tables and indexes if they don't exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS window_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			t INTEGER NOT NULL,
			day_t0 INTEGER NOT NULL,
			s TEXT NOT NULL,
			source_path TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_window_day_t ON window_events(day_t0, t);

		CREATE TABLE IF NOT EXISTS keyfreq_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			t INTEGER NOT NULL,
			day_t0 INTEGER NOT NULL,
			s INTEGER NOT NULL,
			source_path TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_keyfreq_day_t ON keyfreq_events(day_t0, t);

		CREATE TABLE IF NOT EXISTS notes_events (
			id TEXT PRIMARY KEY,
			t INTEGER NOT NULL,
			day_t0 INTEGER NOT NULL,
			s TEXT NOT NULL,
			source_path TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_notes_day_t ON notes_events(day_t0, t);

		CREATE TABLE IF NOT EXISTS coffee_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			t INTEGER NOT NULL,
			day_t0 INTEGER NOT NULL,
			mg INTEGER NOT NULL,
			source_path TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_coffee_day_t ON coffee_events(day_t0, t);

		CREATE TABLE IF NOT EXISTS blog_entries (
			day_t0 INTEGER PRIMARY KEY,
			post TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL,
			source_path TEXT
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS legacy_import_state (
			source_path TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL,
			size INTEGER NOT NULL,
			imported_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ListDayTimestamps returns every known day-start timestamp, ascending,
// across all event kinds.
func ListDayTimestamps(ctx context.Context, db *sql.DB) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT day_t0 FROM window_events
		UNION
		SELECT day_t0 FROM keyfreq_events
		UNION
		SELECT day_t0 FROM notes_events
		UNION
		SELECT day_t0 FROM coffee_events
		UNION
		SELECT day_t0 FROM blog_entries
		ORDER BY day_t0 ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer rows.Close()

	var days []int64
	for rows.Next() {
		var d int64
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
