package engine

import (
	"fmt"
	"hash/fnv"
)

// ColorHash assigns each category a stable HSL color string for charting.
// The hue is derived from an FNV-1a hash of the category name, so a
// category keeps its color across days and processes with no shared state.
func ColorHash(categories []string) map[string]string {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c] = colorFor(c)
	}
	return colors
}

func colorFor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := h.Sum32() % 360
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue)
}
