package domain

// RawEvent is a single window-focus sample as captured by the collector:
// the moment a window came to the foreground, and its title.
type RawEvent struct {
	T     int64  `json:"t"`
	Title string `json:"s"`
}

// Event is a RawEvent after classification and duration annotation.
// Duration is the gap to the next sample; the last event of a day gets a
// 1-second sentinel because no following sample exists.
type Event struct {
	T        int64  `json:"t"`
	Title    string `json:"s"`
	Category string `json:"m"`
	Duration int64  `json:"dt"`
}

// KeySample is one keystroke-frequency bucket: how many keys were pressed
// in the collector's aggregation window ending near T.
type KeySample struct {
	T     int64 `json:"t"`
	Count int64 `json:"s"`
}

// NoteEvent is a free-text annotation pinned to a point in time.
type NoteEvent struct {
	ID   string `json:"id,omitempty"`
	T    int64  `json:"t"`
	Text string `json:"s"`
}

// CoffeeEvent is one logged cup: when it was consumed and its caffeine dose.
type CoffeeEvent struct {
	T  int64 `json:"t"`
	Mg int   `json:"mg"`
}

// DayLog identifies one tracked day: [T0, T1) in unix seconds, plus the
// name of the exported JSON file holding its events.
type DayLog struct {
	T0    int64  `json:"t0"`
	T1    int64  `json:"t1"`
	Fname string `json:"fname"`
}

// DaySeconds is the length of a tracked day.
const DaySeconds = 86400

// Bounds returns the [t0, t1) day window starting at dayT0.
func Bounds(dayT0 int64) DayLog {
	return DayLog{T0: dayT0, T1: dayT0 + DaySeconds}
}

// DayPayload is the full per-day export consumed by the renderer and the
// analytics engine. Field names match the legacy events_<t0>.json format.
type DayPayload struct {
	WindowEvents  []RawEvent    `json:"window_events"`
	KeyfreqEvents []KeySample   `json:"keyfreq_events"`
	NotesEvents   []NoteEvent   `json:"notes_events"`
	CoffeeEvents  []CoffeeEvent `json:"coffee_events"`
	Blog          string        `json:"blog"`
}
