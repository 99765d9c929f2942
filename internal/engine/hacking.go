package engine

import "github.com/prolifichq/prolific/internal/domain"

// HackingBlock is one continuous deep-work interval for the timeline view.
// Intensity is the block's keystroke density relative to the densest block
// of the day, in [0, 1].
type HackingBlock struct {
	T0        int64   `json:"t0"`
	Duration  int64   `json:"dt"`
	Keys      int64   `json:"keys"`
	Intensity float64 `json:"intensity"`
}

// HackingStats summarizes the day's deep-work streaks.
type HackingStats struct {
	TotalSeconds int64          `json:"total_hacking_time"`
	TotalKeys    int64          `json:"total_hacking_keys"`
	Blocks       []HackingBlock `json:"events"`
}

// ComputeHackingStats detects deep-work streaks: runs of consecutive events
// whose category is in the deep set are merged into single blocks (the
// intervals are contiguous by construction, so a run is one unbroken span
// of focused time). Keystroke samples falling inside a block are credited
// to it.
func ComputeHackingStats(events []domain.Event, keys []domain.KeySample, deep map[string]bool) HackingStats {
	stats := HackingStats{Blocks: []HackingBlock{}}

	var open *HackingBlock
	flush := func() {
		if open != nil {
			stats.Blocks = append(stats.Blocks, *open)
			open = nil
		}
	}

	for _, e := range events {
		if e.Duration <= 0 || !deep[e.Category] {
			flush()
			continue
		}
		if open == nil {
			open = &HackingBlock{T0: e.T, Duration: e.Duration}
			continue
		}
		open.Duration = e.T + e.Duration - open.T0
	}
	flush()

	ki := 0
	maxDensity := 0.0
	for i := range stats.Blocks {
		b := &stats.Blocks[i]
		for ki < len(keys) && keys[ki].T < b.T0 {
			ki++
		}
		for ki < len(keys) && keys[ki].T < b.T0+b.Duration {
			b.Keys += keys[ki].Count
			ki++
		}

		stats.TotalSeconds += b.Duration
		stats.TotalKeys += b.Keys
		if d := float64(b.Keys) / float64(b.Duration); d > maxDensity {
			maxDensity = d
		}
	}

	if maxDensity > 0 {
		for i := range stats.Blocks {
			b := &stats.Blocks[i]
			b.Intensity = (float64(b.Keys) / float64(b.Duration)) / maxDensity
		}
	}

	return stats
}
