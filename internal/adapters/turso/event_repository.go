package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prolifichq/prolific/internal/domain"
)

// EventRepository stores and fetches window, keyfreq and note events.
type EventRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewEventRepository(db *sql.DB, loc *time.Location) *EventRepository {
	if loc == nil {
		loc = time.Local
	}
	return &EventRepository{db: db, loc: loc}
}

// sanitizeText flattens newlines so one row stays one logical line, the
// same rule the legacy collector applied.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func (r *EventRepository) InsertWindow(ctx context.Context, t int64, title string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO window_events(t, day_t0, s, source_path) VALUES(?, ?, ?, NULL)",
		t, domain.RewindTime(t, r.loc), sanitizeText(title))
	if err != nil {
		return fmt.Errorf("failed to insert window event: %w", err)
	}
	return nil
}

func (r *EventRepository) InsertKeyfreq(ctx context.Context, t int64, count int64) error {
	if count < 0 {
		count = 0
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO keyfreq_events(t, day_t0, s, source_path) VALUES(?, ?, ?, NULL)",
		t, domain.RewindTime(t, r.loc), count)
	if err != nil {
		return fmt.Errorf("failed to insert keyfreq event: %w", err)
	}
	return nil
}

// InsertNote stores a note and returns its generated id.
func (r *EventRepository) InsertNote(ctx context.Context, t int64, text string) (string, error) {
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notes_events(id, t, day_t0, s, source_path) VALUES(?, ?, ?, ?, NULL)",
		id, t, domain.RewindTime(t, r.loc), sanitizeText(text))
	if err != nil {
		return "", fmt.Errorf("failed to insert note: %w", err)
	}
	return id, nil
}

func (r *EventRepository) DeleteNote(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM notes_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// WindowEvents returns a day's window samples ordered by time.
func (r *EventRepository) WindowEvents(ctx context.Context, dayT0 int64) ([]domain.RawEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT t, s FROM window_events WHERE day_t0 = ? ORDER BY t ASC, id ASC", dayT0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch window events: %w", err)
	}
	defer rows.Close()

	events := []domain.RawEvent{}
	for rows.Next() {
		var e domain.RawEvent
		if err := rows.Scan(&e.T, &e.Title); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// KeyfreqEvents returns a day's keystroke samples ordered by time.
func (r *EventRepository) KeyfreqEvents(ctx context.Context, dayT0 int64) ([]domain.KeySample, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT t, s FROM keyfreq_events WHERE day_t0 = ? ORDER BY t ASC, id ASC", dayT0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch keyfreq events: %w", err)
	}
	defer rows.Close()

	samples := []domain.KeySample{}
	for rows.Next() {
		var s domain.KeySample
		if err := rows.Scan(&s.T, &s.Count); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// NoteEvents returns a day's notes ordered by time.
func (r *EventRepository) NoteEvents(ctx context.Context, dayT0 int64) ([]domain.NoteEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, t, s FROM notes_events WHERE day_t0 = ? ORDER BY t ASC", dayT0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.NoteEvent{}
	for rows.Next() {
		var n domain.NoteEvent
		if err := rows.Scan(&n.ID, &n.T, &n.Text); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
