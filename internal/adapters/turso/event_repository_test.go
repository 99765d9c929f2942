package turso

import (
	"context"
	"testing"

	"github.com/prolifichq/prolific/internal/domain"
)

// 2024-12-22 10:00:00 UTC; its day starts at 07:00 the same morning.
const (
	testT     = int64(1734861600)
	testDayT0 = int64(1734850800)
)

func TestEventRepository_WindowRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	if err := repo.InsertWindow(ctx, testT+5, "vim - Terminal"); err != nil {
		t.Fatalf("InsertWindow: %v", err)
	}
	if err := repo.InsertWindow(ctx, testT, "line\nwith\nbreaks"); err != nil {
		t.Fatalf("InsertWindow: %v", err)
	}

	events, err := repo.WindowEvents(ctx, testDayT0)
	if err != nil {
		t.Fatalf("WindowEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].T != testT || events[1].T != testT+5 {
		t.Errorf("events not ordered by time: %+v", events)
	}
	if events[0].Title != "line with breaks" {
		t.Errorf("newlines not flattened: %q", events[0].Title)
	}
}

func TestEventRepository_DayBoundary(t *testing.T) {
	db := testDB(t)
	loc := testLoc(t)
	repo := NewEventRepository(db, loc)
	ctx := context.Background()

	// 03:00 belongs to the previous day; 08:00 to the current one.
	early := testDayT0 - 4*3600
	if err := repo.InsertWindow(ctx, early, "late night"); err != nil {
		t.Fatal(err)
	}
	if err := repo.InsertWindow(ctx, testT, "morning"); err != nil {
		t.Fatal(err)
	}

	today, err := repo.WindowEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 1 || today[0].Title != "morning" {
		t.Errorf("today = %+v, want only the morning event", today)
	}

	yesterday, err := repo.WindowEvents(ctx, domain.RewindTime(early, loc))
	if err != nil {
		t.Fatal(err)
	}
	if len(yesterday) != 1 || yesterday[0].Title != "late night" {
		t.Errorf("yesterday = %+v, want only the late night event", yesterday)
	}
}

func TestEventRepository_KeyfreqClampsNegative(t *testing.T) {
	db := testDB(t)
	repo := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	if err := repo.InsertKeyfreq(ctx, testT, -3); err != nil {
		t.Fatalf("InsertKeyfreq: %v", err)
	}
	samples, err := repo.KeyfreqEvents(ctx, testDayT0)
	if err != nil {
		t.Fatalf("KeyfreqEvents: %v", err)
	}
	if len(samples) != 1 || samples[0].Count != 0 {
		t.Errorf("samples = %+v, want one sample with count 0", samples)
	}
}

func TestEventRepository_NoteLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	id, err := repo.InsertNote(ctx, testT, "standup done")
	if err != nil {
		t.Fatalf("InsertNote: %v", err)
	}
	if id == "" {
		t.Fatal("InsertNote returned empty id")
	}

	notes, err := repo.NoteEvents(ctx, testDayT0)
	if err != nil {
		t.Fatalf("NoteEvents: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != id || notes[0].Text != "standup done" {
		t.Errorf("notes = %+v", notes)
	}

	if err := repo.DeleteNote(ctx, id); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	notes, err = repo.NoteEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 {
		t.Errorf("got %d notes after delete, want 0", len(notes))
	}
}

func TestEventRepository_EmptyDayReturnsEmptySlices(t *testing.T) {
	db := testDB(t)
	repo := NewEventRepository(db, testLoc(t))
	ctx := context.Background()

	events, err := repo.WindowEvents(ctx, testDayT0)
	if err != nil {
		t.Fatal(err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", events)
	}
}
