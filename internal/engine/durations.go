package engine

import (
	"errors"
	"fmt"

	"github.com/prolifichq/prolific/internal/domain"
)

// ErrUnsorted reports a window-event sequence whose timestamps are not
// ascending. Callers must sort before calling; the engine never re-sorts
// silently because upstream features (click-to-annotate) depend on the
// original ordering.
var ErrUnsorted = errors.New("window events are not sorted by timestamp")

// sentinelDuration is assigned to the last event of a sequence, whose real
// duration is unknowable because no following sample exists.
const sentinelDuration = 1

// DayEvents is the duration-annotated, classified view of one day's window
// samples, plus the per-category time totals.
type DayEvents struct {
	Events []domain.Event
	// Totals maps category -> summed duration in seconds.
	Totals map[string]int64
	// Categories lists every category in first-seen order; this is the
	// catalogue the renderer iterates for stable chart ordering.
	Categories []string
}

// ComputeDurations converts point-in-time window samples into classified
// intervals. Event i lasts until event i+1 begins; the final event gets the
// 1-second sentinel. Returns ErrUnsorted (wrapped with the offending index)
// if timestamps ever decrease.
func ComputeDurations(raw []domain.RawEvent, classify func(string) string) (DayEvents, error) {
	out := DayEvents{
		Events: make([]domain.Event, 0, len(raw)),
		Totals: make(map[string]int64),
	}
	if len(raw) == 0 {
		return out, nil
	}

	for i, e := range raw {
		if i > 0 && e.T < raw[i-1].T {
			return DayEvents{}, fmt.Errorf("event %d (t=%d) before event %d (t=%d): %w",
				i, e.T, i-1, raw[i-1].T, ErrUnsorted)
		}

		var dt int64 = sentinelDuration
		if i+1 < len(raw) {
			dt = raw[i+1].T - e.T
		}

		cat := classify(e.Title)
		if _, seen := out.Totals[cat]; !seen {
			out.Categories = append(out.Categories, cat)
		}
		out.Totals[cat] += dt

		out.Events = append(out.Events, domain.Event{
			T:        e.T,
			Title:    e.Title,
			Category: cat,
			Duration: dt,
		})
	}

	return out, nil
}
