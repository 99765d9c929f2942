package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/util"
)

// Caffeine model constants. The half-life and spacing values are common
// pharmacokinetic heuristics, kept as literals so the advisor's behavior is
// reproducible; they are not presented as scientifically authoritative.
const (
	CoffeeDailyLimit = 3
	CoffeeDefaultMg  = 100

	coffeeHalfLifeSeconds    = 5 * 3600
	coffeeSpacingSeconds     = 3 * 3600
	coffeeSleepBufferSeconds = 8 * 3600

	// DefaultSleepClock is used when the stored preference is missing or
	// malformed; a bad sleep clock is a low-stakes user preference, so it
	// falls back silently instead of failing.
	DefaultSleepClock = "23:00"

	bedtimeWarnMg = 30
)

// CoffeePlan is the forward-looking consumption plan for one day, computed
// fresh per query time and never persisted.
type CoffeePlan struct {
	CupsTaken         int     `json:"cups_taken"`
	CupsLeft          int     `json:"cups_left"`
	SleepTS           int64   `json:"sleep_ts"`
	CutoffTS          int64   `json:"cutoff_ts"`
	NowTS             int64   `json:"now_ts"`
	NextSlots         []int64 `json:"next_slots"`
	CaffeineNowMg     float64 `json:"caffeine_now_mg"`
	CaffeineBedtimeMg float64 `json:"caffeine_bedtime_mg"`
}

// NormalizeCoffeeEvents drops entries with non-positive doses and returns
// the rest sorted by time. The input slice is not mutated.
func NormalizeCoffeeEvents(events []domain.CoffeeEvent) []domain.CoffeeEvent {
	out := make([]domain.CoffeeEvent, 0, len(events))
	for _, e := range events {
		if e.Mg <= 0 {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// CaffeineAt estimates circulating caffeine in mg at time t, assuming each
// dose decays exponentially with a 5-hour half-life. Doses after t do not
// contribute.
func CaffeineAt(coffees []domain.CoffeeEvent, t int64) float64 {
	total := 0.0
	for _, c := range coffees {
		if c.T > t {
			continue
		}
		age := float64(t - c.T)
		total += float64(c.Mg) * math.Pow(0.5, age/coffeeHalfLifeSeconds)
	}
	return total
}

// SleepTimestamp projects an "HH:MM" sleep clock onto the day starting at
// dayT0. If the projected instant lands before the day start (the clock
// names an hour earlier than the 7 AM day break), it rolls forward 24 hours.
// A malformed clock falls back to DefaultSleepClock.
func SleepTimestamp(dayT0 int64, clock string, loc *time.Location) int64 {
	if loc == nil {
		loc = time.Local
	}
	hh, mm := parseSleepClock(clock)

	d := time.Unix(dayT0, 0).In(loc)
	ts := time.Date(d.Year(), d.Month(), d.Day(), hh, mm, 0, 0, loc).Unix()
	if ts < dayT0 {
		ts += domain.DaySeconds
	}
	return ts
}

func parseSleepClock(clock string) (hh, mm int) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 23, 0
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 23, 0
	}
	return h, m
}

// ValidSleepClock reports whether clock is a well-formed "HH:MM" value.
func ValidSleepClock(clock string) bool {
	if len(clock) != 5 || clock[2] != ':' {
		return false
	}
	h, errH := strconv.Atoi(clock[:2])
	m, errM := strconv.Atoi(clock[3:])
	return errH == nil && errM == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// BuildCoffeePlan computes the consumption plan for the day given the
// normalized coffee log, the sleep-clock preference and the query time. For
// historical days callers pass now = day.T1 - 1; advisory logging is only
// meaningful for the current day.
func BuildCoffeePlan(day domain.DayLog, coffees []domain.CoffeeEvent, sleepClock string, now int64, loc *time.Location) CoffeePlan {
	cupsTaken := len(coffees)
	cupsLeft := CoffeeDailyLimit - cupsTaken
	if cupsLeft < 0 {
		cupsLeft = 0
	}

	sleepTS := SleepTimestamp(day.T0, sleepClock, loc)
	cutoffTS := sleepTS - coffeeSleepBufferSeconds

	earliestNext := now
	if cupsTaken > 0 {
		if spaced := coffees[cupsTaken-1].T + coffeeSpacingSeconds; spaced > earliestNext {
			earliestNext = spaced
		}
	}

	nextSlots := make([]int64, 0, cupsLeft)
	slot := earliestNext
	for i := 0; i < cupsLeft; i++ {
		if slot > cutoffTS {
			break
		}
		nextSlots = append(nextSlots, slot)
		slot += coffeeSpacingSeconds
	}

	return CoffeePlan{
		CupsTaken:         cupsTaken,
		CupsLeft:          cupsLeft,
		SleepTS:           sleepTS,
		CutoffTS:          cutoffTS,
		NowTS:             now,
		NextSlots:         nextSlots,
		CaffeineNowMg:     CaffeineAt(coffees, now),
		CaffeineBedtimeMg: CaffeineAt(coffees, sleepTS),
	}
}

// AdviceForPlan renders the advisory text for a plan. Exactly one headline
// rule applies, in priority order; the cutoff line is always appended, and
// an elevated-bedtime-caffeine warning follows when projected bedtime
// caffeine is still high.
func AdviceForPlan(plan CoffeePlan, isToday bool, loc *time.Location) string {
	var lines []string

	switch {
	case plan.CupsTaken >= CoffeeDailyLimit:
		lines = append(lines, fmt.Sprintf("Daily cap reached (%d/%d). Skip more caffeine today to protect sleep.",
			CoffeeDailyLimit, CoffeeDailyLimit))
	case !isToday:
		lines = append(lines, "Viewing a historical day. Logging is enabled only for the current day.")
	case len(plan.NextSlots) == 0:
		if plan.NowTS > plan.CutoffTS {
			lines = append(lines, "You are inside the no-caffeine window before sleep. Skip the next cup today.")
		} else {
			lines = append(lines, "Not enough time remains before your sleep cutoff for another full coffee window.")
		}
	default:
		var cups []string
		for i, ts := range plan.NextSlots {
			if i >= 2 {
				break
			}
			cups = append(cups, fmt.Sprintf("Cup %d: around %s", plan.CupsTaken+i+1, util.FormatClock(ts, loc)))
		}
		lines = append(lines, strings.Join(cups, " | "))
	}

	lines = append(lines, fmt.Sprintf("Sleep-protection caffeine cutoff: %s (~8h before target sleep).",
		util.FormatClock(plan.CutoffTS, loc)))
	if plan.CaffeineBedtimeMg >= bedtimeWarnMg {
		lines = append(lines, fmt.Sprintf("Estimated bedtime circulating caffeine is still elevated (%d mg).",
			int(math.Round(plan.CaffeineBedtimeMg))))
	}

	return strings.Join(lines, "\n")
}
