// Package export assembles per-day payloads and writes the static JSON
// files the external renderer reads: render/events_<t0>.json plus
// render/export_list.json.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prolifichq/prolific/internal/domain"
)

// EventReader fetches a day's captured events.
type EventReader interface {
	WindowEvents(ctx context.Context, dayT0 int64) ([]domain.RawEvent, error)
	KeyfreqEvents(ctx context.Context, dayT0 int64) ([]domain.KeySample, error)
	NoteEvents(ctx context.Context, dayT0 int64) ([]domain.NoteEvent, error)
}

// CoffeeReader fetches a day's coffee log.
type CoffeeReader interface {
	ForDay(ctx context.Context, dayT0 int64) ([]domain.CoffeeEvent, error)
}

// BlogReader fetches a day's post.
type BlogReader interface {
	Get(ctx context.Context, dayT0 int64) (string, error)
}

// Exporter builds day payloads and maintains the render directory.
type Exporter struct {
	events    EventReader
	coffee    CoffeeReader
	blog      BlogReader
	listDays  func(ctx context.Context) ([]int64, error)
	renderDir string
}

func New(events EventReader, coffee CoffeeReader, blog BlogReader,
	listDays func(ctx context.Context) ([]int64, error), renderDir string) *Exporter {
	return &Exporter{
		events:    events,
		coffee:    coffee,
		blog:      blog,
		listDays:  listDays,
		renderDir: renderDir,
	}
}

// BuildPayload assembles the full payload for one day.
func (e *Exporter) BuildPayload(ctx context.Context, dayT0 int64) (domain.DayPayload, error) {
	var payload domain.DayPayload
	var err error

	if payload.WindowEvents, err = e.events.WindowEvents(ctx, dayT0); err != nil {
		return payload, err
	}
	if payload.KeyfreqEvents, err = e.events.KeyfreqEvents(ctx, dayT0); err != nil {
		return payload, err
	}
	if payload.NotesEvents, err = e.events.NoteEvents(ctx, dayT0); err != nil {
		return payload, err
	}
	if payload.CoffeeEvents, err = e.coffee.ForDay(ctx, dayT0); err != nil {
		return payload, err
	}
	if payload.Blog, err = e.blog.Get(ctx, dayT0); err != nil {
		return payload, err
	}
	return payload, nil
}

// DayIndex lists every known day as [t0, t1) windows with their export
// file names, oldest first.
func (e *Exporter) DayIndex(ctx context.Context) ([]domain.DayLog, error) {
	days, err := e.listDays(ctx)
	if err != nil {
		return nil, err
	}
	index := make([]domain.DayLog, 0, len(days))
	for _, t0 := range days {
		day := domain.Bounds(t0)
		day.Fname = fmt.Sprintf("events_%d.json", t0)
		index = append(index, day)
	}
	return index, nil
}

// WriteDay writes one day's events_<t0>.json file.
func (e *Exporter) WriteDay(ctx context.Context, dayT0 int64) error {
	payload, err := e.BuildPayload(ctx, dayT0)
	if err != nil {
		return err
	}
	return e.writeJSON(fmt.Sprintf("events_%d.json", dayT0), payload)
}

// WriteAll rebuilds every day file plus export_list.json and returns the
// day index it wrote.
func (e *Exporter) WriteAll(ctx context.Context) ([]domain.DayLog, error) {
	index, err := e.DayIndex(ctx)
	if err != nil {
		return nil, err
	}
	for _, day := range index {
		if err := e.WriteDay(ctx, day.T0); err != nil {
			return nil, err
		}
	}
	if err := e.writeJSON("export_list.json", index); err != nil {
		return nil, err
	}
	return index, nil
}

func (e *Exporter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.renderDir, 0o755); err != nil {
		return fmt.Errorf("creating render dir: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(e.renderDir, name)

	// Write-then-rename so the renderer never reads a half-written file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
