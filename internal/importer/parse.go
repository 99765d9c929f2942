package importer

import (
	"strconv"
	"strings"

	"github.com/prolifichq/prolific/internal/adapters/turso"
	"github.com/prolifichq/prolific/internal/domain"
)

// parseStamp accepts integer or fractional unix timestamps; fractions are
// truncated. Some legacy collectors logged float stamps.
func parseStamp(raw string) (int64, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

func flattenText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// parseTextLines parses "<unix> <text>" lines for window and note logs.
// Malformed lines are counted; lines outside the file's day or with empty
// text are dropped silently.
func parseTextLines(content string, dayT0 int64) (rows []turso.TextRow, malformed int) {
	dayT1 := dayT0 + domain.DaySeconds
	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		stampRaw, valueRaw, ok := strings.Cut(line, " ")
		if !ok {
			malformed++
			continue
		}
		stamp, ok := parseStamp(stampRaw)
		if !ok {
			malformed++
			continue
		}
		if stamp < dayT0 || stamp >= dayT1 {
			continue
		}
		text := flattenText(valueRaw)
		if text == "" {
			continue
		}
		rows = append(rows, turso.TextRow{T: stamp, DayT0: dayT0, Text: text})
	}
	return rows, malformed
}

// parseCountLines parses "<unix> <count>" lines for keyfreq logs. Counts
// must be non-negative integers; negative counts are dropped silently,
// non-integers are malformed.
func parseCountLines(content string, dayT0 int64) (rows []turso.CountRow, malformed int) {
	dayT1 := dayT0 + domain.DaySeconds
	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		stampRaw, valueRaw, ok := strings.Cut(line, " ")
		if !ok {
			malformed++
			continue
		}
		stamp, ok := parseStamp(stampRaw)
		if !ok {
			malformed++
			continue
		}
		if stamp < dayT0 || stamp >= dayT1 {
			continue
		}
		count, err := strconv.ParseInt(strings.TrimSpace(valueRaw), 10, 64)
		if err != nil {
			malformed++
			continue
		}
		if count < 0 {
			continue
		}
		rows = append(rows, turso.CountRow{T: stamp, DayT0: dayT0, Count: count})
	}
	return rows, malformed
}
