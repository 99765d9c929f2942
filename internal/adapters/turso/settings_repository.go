package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prolifichq/prolific/internal/engine"
)

const sleepClockKey = "sleep_clock"

// SettingsRepository stores small key/value user preferences.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// SleepClock returns the configured target sleep time as "HH:MM". A
// missing or corrupt value falls back to the default silently; the
// caffeine planner must always have a usable clock.
func (r *SettingsRepository) SleepClock(ctx context.Context) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", sleepClockKey).Scan(&value)
	if err == sql.ErrNoRows {
		return engine.DefaultSleepClock, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch sleep clock: %w", err)
	}
	if !engine.ValidSleepClock(value) {
		return engine.DefaultSleepClock, nil
	}
	return value, nil
}

// SetSleepClock stores a new target sleep time. Rejects anything that is
// not a valid "HH:MM" 24h clock.
func (r *SettingsRepository) SetSleepClock(ctx context.Context, clock string) error {
	if !engine.ValidSleepClock(clock) {
		return fmt.Errorf("invalid sleep clock %q, want HH:MM", clock)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, sleepClockKey, clock)
	if err != nil {
		return fmt.Errorf("failed to store sleep clock: %w", err)
	}
	return nil
}
