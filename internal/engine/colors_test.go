package engine

import (
	"regexp"
	"testing"
)

func TestColorHash(t *testing.T) {
	cats := []string{"Browser", "VSCode", "Games", "MISC", "Terminal"}
	got := ColorHash(cats)

	// Hues are pinned so charts stay stable across releases.
	want := map[string]string{
		"Browser":  "hsl(311, 70%, 50%)",
		"VSCode":   "hsl(291, 70%, 50%)",
		"Games":    "hsl(116, 70%, 50%)",
		"MISC":     "hsl(17, 70%, 50%)",
		"Terminal": "hsl(201, 70%, 50%)",
	}
	for cat, color := range want {
		if got[cat] != color {
			t.Errorf("ColorHash[%q] = %q, want %q", cat, got[cat], color)
		}
	}
}

func TestColorHash_StableAndWellFormed(t *testing.T) {
	cats := []string{"A", "B", "C", "Some Long Category Name"}
	first := ColorHash(cats)
	second := ColorHash(cats)

	format := regexp.MustCompile(`^hsl\(\d{1,3}, 70%, 50%\)$`)
	for _, c := range cats {
		if first[c] != second[c] {
			t.Errorf("color for %q changed between calls", c)
		}
		if !format.MatchString(first[c]) {
			t.Errorf("color for %q is malformed: %q", c, first[c])
		}
	}
}
