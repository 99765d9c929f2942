package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/prolifichq/prolific/internal/domain"
)

func identity(title string) string { return title }

func TestComputeDurations(t *testing.T) {
	raw := []domain.RawEvent{
		{T: 100, Title: "A"},
		{T: 700, Title: "B"},
		{T: 760, Title: "A"},
	}

	got, err := ComputeDurations(raw, identity)
	if err != nil {
		t.Fatalf("ComputeDurations returned error: %v", err)
	}

	wantDurations := []int64{600, 60, 1}
	for i, e := range got.Events {
		if e.Duration != wantDurations[i] {
			t.Errorf("event %d duration = %d, want %d", i, e.Duration, wantDurations[i])
		}
	}

	// sum(duration) == lastTimestamp - firstTimestamp + 1 (sentinel tail)
	var sum int64
	for _, e := range got.Events {
		sum += e.Duration
	}
	if want := raw[len(raw)-1].T - raw[0].T + 1; sum != want {
		t.Errorf("duration sum = %d, want %d", sum, want)
	}

	if want := map[string]int64{"A": 601, "B": 60}; !reflect.DeepEqual(got.Totals, want) {
		t.Errorf("totals = %v, want %v", got.Totals, want)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("catalogue = %v, want %v", got.Categories, want)
	}
}

func TestComputeDurations_SingleEvent(t *testing.T) {
	got, err := ComputeDurations([]domain.RawEvent{{T: 50, Title: "A"}}, identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Events) != 1 || got.Events[0].Duration != 1 {
		t.Fatalf("single event should get sentinel duration 1, got %+v", got.Events)
	}
	if len(got.Totals) != 1 || got.Totals["A"] != 1 {
		t.Errorf("totals = %v, want map[A:1]", got.Totals)
	}
}

func TestComputeDurations_Empty(t *testing.T) {
	got, err := ComputeDurations(nil, identity)
	if err != nil {
		t.Fatalf("empty input must not fail: %v", err)
	}
	if len(got.Events) != 0 || len(got.Totals) != 0 || len(got.Categories) != 0 {
		t.Errorf("empty input should yield empty result, got %+v", got)
	}
}

func TestComputeDurations_Unsorted(t *testing.T) {
	raw := []domain.RawEvent{
		{T: 700, Title: "A"},
		{T: 100, Title: "B"},
	}
	_, err := ComputeDurations(raw, identity)
	if !errors.Is(err, ErrUnsorted) {
		t.Fatalf("want ErrUnsorted, got %v", err)
	}
}

func TestComputeDurations_EqualTimestampsAllowed(t *testing.T) {
	raw := []domain.RawEvent{
		{T: 100, Title: "A"},
		{T: 100, Title: "B"},
		{T: 200, Title: "A"},
	}
	got, err := ComputeDurations(raw, identity)
	if err != nil {
		t.Fatalf("equal timestamps must not fail: %v", err)
	}
	for i, e := range got.Events {
		if e.Duration < 0 {
			t.Errorf("event %d has negative duration %d", i, e.Duration)
		}
	}
}

func TestComputeDurations_ClassifiesTitles(t *testing.T) {
	classify := func(title string) string {
		if title == "vim" {
			return "Terminal"
		}
		return "MISC"
	}
	got, err := ComputeDurations([]domain.RawEvent{
		{T: 0, Title: "vim"},
		{T: 10, Title: "solitaire"},
	}, classify)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Events[0].Category != "Terminal" || got.Events[1].Category != "MISC" {
		t.Errorf("categories = %q, %q", got.Events[0].Category, got.Events[1].Category)
	}
}
