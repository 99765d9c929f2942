package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TextRow is one parsed line destined for a text-valued event table.
type TextRow struct {
	T     int64
	DayT0 int64
	Text  string
}

// CountRow is one parsed line destined for the keyfreq table.
type CountRow struct {
	T     int64
	DayT0 int64
	Count int64
}

// LegacyRepository tracks which legacy log files have been imported and
// replaces their rows atomically on re-import.
type LegacyRepository struct {
	db *sql.DB
}

func NewLegacyRepository(db *sql.DB) *LegacyRepository {
	return &LegacyRepository{db: db}
}

// NeedsImport reports whether a source file changed since it was last
// imported. force always imports.
func (r *LegacyRepository) NeedsImport(ctx context.Context, path string, mtime, size int64, force bool) (bool, error) {
	if force {
		return true, nil
	}
	var gotMtime, gotSize int64
	err := r.db.QueryRowContext(ctx,
		"SELECT mtime, size FROM legacy_import_state WHERE source_path = ?", path).
		Scan(&gotMtime, &gotSize)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read import state: %w", err)
	}
	return gotMtime != mtime || gotSize != size, nil
}

// MarkImported records that a source file's current mtime and size are in
// the database.
func (r *LegacyRepository) MarkImported(ctx context.Context, path string, mtime, size int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO legacy_import_state(source_path, mtime, size, imported_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			mtime = excluded.mtime,
			size = excluded.size,
			imported_at = excluded.imported_at
	`, path, mtime, size, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark import state: %w", err)
	}
	return nil
}

// ReplaceWindowRows swaps all window rows from one source file in a single
// transaction, so a re-import never duplicates or half-applies a file.
func (r *LegacyRepository) ReplaceWindowRows(ctx context.Context, path string, rows []TextRow) error {
	return r.replaceText(ctx, "window_events", path, rows)
}

// ReplaceNoteRows swaps all note rows from one source file. Note ids for
// legacy rows are synthesized from the source path and timestamp so
// re-imports are stable.
func (r *LegacyRepository) ReplaceNoteRows(ctx context.Context, path string, rows []TextRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notes_events WHERE source_path = ?", path); err != nil {
		return fmt.Errorf("failed to clear notes from %s: %w", path, err)
	}
	for i, row := range rows {
		id := fmt.Sprintf("legacy:%s:%d:%d", path, row.T, i)
		_, err := tx.ExecContext(ctx,
			"INSERT INTO notes_events(id, t, day_t0, s, source_path) VALUES(?, ?, ?, ?, ?)",
			id, row.T, row.DayT0, row.Text, path)
		if err != nil {
			return fmt.Errorf("failed to insert note from %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// ReplaceKeyfreqRows swaps all keyfreq rows from one source file.
func (r *LegacyRepository) ReplaceKeyfreqRows(ctx context.Context, path string, rows []CountRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM keyfreq_events WHERE source_path = ?", path); err != nil {
		return fmt.Errorf("failed to clear keyfreq rows from %s: %w", path, err)
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO keyfreq_events(t, day_t0, s, source_path) VALUES(?, ?, ?, ?)",
			row.T, row.DayT0, row.Count, path)
		if err != nil {
			return fmt.Errorf("failed to insert keyfreq row from %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// ReplaceBlog imports a legacy blog file for one day.
func (r *LegacyRepository) ReplaceBlog(ctx context.Context, path string, dayT0 int64, post string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blog_entries(day_t0, post, updated_at, source_path)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(day_t0) DO UPDATE SET
			post = excluded.post,
			updated_at = excluded.updated_at,
			source_path = excluded.source_path
	`, dayT0, post, time.Now().Unix(), path)
	if err != nil {
		return fmt.Errorf("failed to import blog from %s: %w", path, err)
	}
	return nil
}

func (r *LegacyRepository) replaceText(ctx context.Context, table, path string, rows []TextRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE source_path = ?", path); err != nil {
		return fmt.Errorf("failed to clear %s rows from %s: %w", table, path, err)
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+"(t, day_t0, s, source_path) VALUES(?, ?, ?, ?)",
			row.T, row.DayT0, row.Text, path)
		if err != nil {
			return fmt.Errorf("failed to insert %s row from %s: %w", table, path, err)
		}
	}
	return tx.Commit()
}
