package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/prolifichq/prolific/internal/domain"
)

type fakeReader struct {
	windows map[int64][]domain.RawEvent
	keys    map[int64][]domain.KeySample
	notes   map[int64][]domain.NoteEvent
	coffees map[int64][]domain.CoffeeEvent
	blogs   map[int64]string
}

func (f *fakeReader) WindowEvents(_ context.Context, dayT0 int64) ([]domain.RawEvent, error) {
	return f.windows[dayT0], nil
}

func (f *fakeReader) KeyfreqEvents(_ context.Context, dayT0 int64) ([]domain.KeySample, error) {
	return f.keys[dayT0], nil
}

func (f *fakeReader) NoteEvents(_ context.Context, dayT0 int64) ([]domain.NoteEvent, error) {
	return f.notes[dayT0], nil
}

func (f *fakeReader) ForDay(_ context.Context, dayT0 int64) ([]domain.CoffeeEvent, error) {
	return f.coffees[dayT0], nil
}

func (f *fakeReader) Get(_ context.Context, dayT0 int64) (string, error) {
	return f.blogs[dayT0], nil
}

func (f *fakeReader) days() []int64 {
	seen := map[int64]bool{}
	for d := range f.windows {
		seen[d] = true
	}
	for d := range f.blogs {
		seen[d] = true
	}
	out := make([]int64, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

const dayA = int64(1734850800)

func newExporter(t *testing.T, f *fakeReader) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	e := New(f, f, f, func(context.Context) ([]int64, error) {
		return f.days(), nil
	}, dir)
	return e, dir
}

func TestBuildPayload(t *testing.T) {
	f := &fakeReader{
		windows: map[int64][]domain.RawEvent{
			dayA: {{T: dayA + 100, Title: "vim - Terminal"}},
		},
		keys: map[int64][]domain.KeySample{
			dayA: {{T: dayA + 100, Count: 42}},
		},
		notes:   map[int64][]domain.NoteEvent{},
		coffees: map[int64][]domain.CoffeeEvent{},
		blogs:   map[int64]string{dayA: "good day"},
	}
	e, _ := newExporter(t, f)

	payload, err := e.BuildPayload(context.Background(), dayA)
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if len(payload.WindowEvents) != 1 || payload.WindowEvents[0].Title != "vim - Terminal" {
		t.Errorf("WindowEvents = %+v", payload.WindowEvents)
	}
	if payload.Blog != "good day" {
		t.Errorf("Blog = %q", payload.Blog)
	}
}

func TestWriteAll(t *testing.T) {
	dayB := dayA + domain.DaySeconds
	f := &fakeReader{
		windows: map[int64][]domain.RawEvent{
			dayA: {{T: dayA + 100, Title: "vim"}},
			dayB: {{T: dayB + 100, Title: "chrome"}},
		},
		keys:    map[int64][]domain.KeySample{},
		notes:   map[int64][]domain.NoteEvent{},
		coffees: map[int64][]domain.CoffeeEvent{},
		blogs:   map[int64]string{},
	}
	e, dir := newExporter(t, f)

	index, err := e.WriteAll(context.Background())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("index has %d days, want 2", len(index))
	}
	if index[0].T0 != dayA || index[0].T1 != dayA+domain.DaySeconds {
		t.Errorf("index[0] = %+v", index[0])
	}
	if index[0].Fname != "events_1734850800.json" {
		t.Errorf("Fname = %q", index[0].Fname)
	}

	// export_list.json matches the returned index.
	data, err := os.ReadFile(filepath.Join(dir, "export_list.json"))
	if err != nil {
		t.Fatalf("reading export_list.json: %v", err)
	}
	var onDisk []domain.DayLog
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("decoding export_list.json: %v", err)
	}
	if len(onDisk) != 2 || onDisk[1].Fname != index[1].Fname {
		t.Errorf("on-disk index = %+v", onDisk)
	}

	// Each day file decodes to the legacy payload shape.
	data, err = os.ReadFile(filepath.Join(dir, index[0].Fname))
	if err != nil {
		t.Fatalf("reading day file: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"window_events", "keyfreq_events", "notes_events", "coffee_events", "blog"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("day file missing %q", key)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, index[0].Fname+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
