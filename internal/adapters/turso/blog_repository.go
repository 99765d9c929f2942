package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BlogRepository stores the per-day free-text post.
type BlogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Upsert replaces the post for a day. An empty post is stored as-is so a
// user can clear the entry.
func (r *BlogRepository) Upsert(ctx context.Context, dayT0 int64, post string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blog_entries(day_t0, post, updated_at, source_path)
		VALUES(?, ?, ?, NULL)
		ON CONFLICT(day_t0) DO UPDATE SET post = excluded.post, updated_at = excluded.updated_at
	`, dayT0, post, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert blog entry: %w", err)
	}
	return nil
}

// Get returns the post for a day, or "" when none exists.
func (r *BlogRepository) Get(ctx context.Context, dayT0 int64) (string, error) {
	var post string
	err := r.db.QueryRowContext(ctx,
		"SELECT post FROM blog_entries WHERE day_t0 = ?", dayT0).Scan(&post)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch blog entry: %w", err)
	}
	return post, nil
}
