package turso

import (
	"context"
	"testing"
)

func TestLegacyRepository_NeedsImport(t *testing.T) {
	db := testDB(t)
	repo := NewLegacyRepository(db)
	ctx := context.Background()

	need, err := repo.NeedsImport(ctx, "logs/window_1.txt", 100, 50, false)
	if err != nil {
		t.Fatalf("NeedsImport: %v", err)
	}
	if !need {
		t.Error("unseen file should need import")
	}

	if err := repo.MarkImported(ctx, "logs/window_1.txt", 100, 50); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	need, err = repo.NeedsImport(ctx, "logs/window_1.txt", 100, 50, false)
	if err != nil {
		t.Fatal(err)
	}
	if need {
		t.Error("unchanged file should not need import")
	}

	need, err = repo.NeedsImport(ctx, "logs/window_1.txt", 101, 50, false)
	if err != nil {
		t.Fatal(err)
	}
	if !need {
		t.Error("changed mtime should need import")
	}

	need, err = repo.NeedsImport(ctx, "logs/window_1.txt", 100, 50, true)
	if err != nil {
		t.Fatal(err)
	}
	if !need {
		t.Error("force should always import")
	}
}

func TestLegacyRepository_ReplaceWindowRowsIsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewLegacyRepository(db)
	events := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	rows := []TextRow{
		{T: testT, DayT0: testDayT0, Text: "vim - Terminal"},
		{T: testT + 10, DayT0: testDayT0, Text: "Google Chrome"},
	}
	if err := repo.ReplaceWindowRows(ctx, "logs/window_1.txt", rows); err != nil {
		t.Fatalf("ReplaceWindowRows: %v", err)
	}
	// Re-importing the same file must not duplicate rows.
	if err := repo.ReplaceWindowRows(ctx, "logs/window_1.txt", rows); err != nil {
		t.Fatalf("ReplaceWindowRows again: %v", err)
	}

	got, err := events.WindowEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows after re-import, want 2", len(got))
	}
}

func TestLegacyRepository_ReplaceKeepsOtherSources(t *testing.T) {
	db := testDB(t)
	repo := NewLegacyRepository(db)
	events := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	if err := repo.ReplaceWindowRows(ctx, "logs/a.txt", []TextRow{
		{T: testT, DayT0: testDayT0, Text: "from a"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceWindowRows(ctx, "logs/b.txt", []TextRow{
		{T: testT + 1, DayT0: testDayT0, Text: "from b"},
	}); err != nil {
		t.Fatal(err)
	}
	// Shrinking a re-imports only a's rows.
	if err := repo.ReplaceWindowRows(ctx, "logs/a.txt", nil); err != nil {
		t.Fatal(err)
	}

	got, err := events.WindowEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "from b" {
		t.Errorf("got %+v, want only b's row", got)
	}
}

func TestLegacyRepository_ReplaceNoteRowsStableIDs(t *testing.T) {
	db := testDB(t)
	repo := NewLegacyRepository(db)
	events := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	rows := []TextRow{{T: testT, DayT0: testDayT0, Text: "imported note"}}
	if err := repo.ReplaceNoteRows(ctx, "logs/notes_1.txt", rows); err != nil {
		t.Fatal(err)
	}
	first, err := events.NoteEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.ReplaceNoteRows(ctx, "logs/notes_1.txt", rows); err != nil {
		t.Fatal(err)
	}
	second, err := events.NoteEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("want one note each import, got %d then %d", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("legacy note id changed across re-imports: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestListDayTimestamps(t *testing.T) {
	db := testDB(t)
	repo := NewLegacyRepository(db)
	ctx := context.Background()

	if err := repo.ReplaceWindowRows(ctx, "logs/w.txt", []TextRow{
		{T: testT, DayT0: testDayT0, Text: "x"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceKeyfreqRows(ctx, "logs/k.txt", []CountRow{
		{T: testT - 86400, DayT0: testDayT0 - 86400, Count: 12},
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceBlog(ctx, "logs/blog.txt", testDayT0+86400, "hi"); err != nil {
		t.Fatal(err)
	}

	days, err := ListDayTimestamps(ctx, db)
	if err != nil {
		t.Fatalf("ListDayTimestamps: %v", err)
	}
	want := []int64{testDayT0 - 86400, testDayT0, testDayT0 + 86400}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %d, want %d", i, days[i], want[i])
		}
	}
}
