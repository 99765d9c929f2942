package engine

import "github.com/prolifichq/prolific/internal/domain"

// KeySampleSeconds is the collector's keystroke aggregation window: each
// keyfreq sample covers roughly this many seconds, so a category's typing
// rate is TotalKeys / (Samples * KeySampleSeconds).
const KeySampleSeconds = 9.0

// KeyStats accumulates keystroke volume for one category.
type KeyStats struct {
	TotalKeys int64 `json:"f"`
	Samples   int64 `json:"n"`
}

// Rate returns the keys-per-second typing rate for the category.
func (k KeyStats) Rate() float64 {
	if k.Samples == 0 {
		return 0
	}
	return float64(k.TotalKeys) / (float64(k.Samples) * KeySampleSeconds)
}

// ComputeKeyStats merges keystroke samples against classified window
// intervals: a sample timestamped inside an event's interval is credited to
// that event's category. Samples outside every interval are dropped. Any
// display cutoff (e.g. hiding categories under 60 keys) is a rendering
// concern, not applied here.
func ComputeKeyStats(events []domain.Event, keys []domain.KeySample) map[string]KeyStats {
	stats := make(map[string]KeyStats)

	ki := 0
	for _, e := range events {
		if e.Duration <= 0 {
			continue
		}
		for ki < len(keys) && keys[ki].T < e.T {
			ki++
		}
		for ki < len(keys) && keys[ki].T < e.T+e.Duration {
			s := stats[e.Category]
			s.TotalKeys += keys[ki].Count
			s.Samples++
			stats[e.Category] = s
			ki++
		}
	}

	return stats
}
