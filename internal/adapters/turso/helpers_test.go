package turso

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(context.Background(), db); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	// The shared-cache memory database persists across tests in the same
	// process, so start each test from empty tables.
	for _, table := range []string{
		"window_events", "keyfreq_events", "notes_events",
		"coffee_events", "blog_entries", "settings", "legacy_import_state",
	} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clear %s: %v", table, err)
		}
	}
	return db
}

func testLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("UTC")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}
	return loc
}
