package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/engine"
)

// ErrDailyCap is returned when a day already holds the maximum number of
// coffee entries.
var ErrDailyCap = errors.New("daily coffee cap reached")

// CoffeeRepository stores coffee intake events with a per-day cap.
type CoffeeRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewCoffeeRepository(db *sql.DB, loc *time.Location) *CoffeeRepository {
	if loc == nil {
		loc = time.Local
	}
	return &CoffeeRepository{db: db, loc: loc}
}

// Add records a cup at time t. It fails with ErrDailyCap when the day
// already has engine.CoffeeDailyLimit cups. mg <= 0 uses the default dose.
func (r *CoffeeRepository) Add(ctx context.Context, t int64, mg int) error {
	if mg <= 0 {
		mg = engine.CoffeeDefaultMg
	}
	dayT0 := domain.RewindTime(t, r.loc)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coffee_events WHERE day_t0 = ?", dayT0).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count coffee events: %w", err)
	}
	if count >= engine.CoffeeDailyLimit {
		return ErrDailyCap
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO coffee_events(t, day_t0, mg, source_path) VALUES(?, ?, ?, NULL)",
		t, dayT0, mg)
	if err != nil {
		return fmt.Errorf("failed to insert coffee event: %w", err)
	}
	return tx.Commit()
}

// ForDay returns a day's coffee events ordered by time.
func (r *CoffeeRepository) ForDay(ctx context.Context, dayT0 int64) ([]domain.CoffeeEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT t, mg FROM coffee_events WHERE day_t0 = ? ORDER BY t ASC, id ASC", dayT0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coffee events: %w", err)
	}
	defer rows.Close()

	coffees := []domain.CoffeeEvent{}
	for rows.Next() {
		var c domain.CoffeeEvent
		if err := rows.Scan(&c.T, &c.Mg); err != nil {
			return nil, err
		}
		coffees = append(coffees, c)
	}
	return coffees, rows.Err()
}
