package engine

import (
	"time"

	"github.com/prolifichq/prolific/internal/domain"
)

// DayAnalytics bundles every per-day analysis the API and the terminal
// views serve.
type DayAnalytics struct {
	Focus        FocusStats          `json:"focus"`
	FocusTip     string              `json:"focus_tip"`
	Hacking      HackingStats        `json:"hacking"`
	Keys         map[string]KeyStats `json:"keys"`
	Coffee       CoffeePlan          `json:"coffee"`
	CoffeeAdvice string              `json:"coffee_advice"`
	Totals       map[string]int64    `json:"category_totals"`
	Colors       map[string]string   `json:"colors"`
}

// BuildDayAnalytics runs the full analysis pipeline over one day's
// payload. now decides whether the caffeine advice treats the day as
// still in progress.
func BuildDayAnalytics(dayT0 int64, payload domain.DayPayload, classify func(string) string,
	ignored, deep map[string]bool, sleepClock string, now int64, loc *time.Location) (DayAnalytics, error) {

	if loc == nil {
		loc = time.Local
	}

	day, err := ComputeDurations(payload.WindowEvents, classify)
	if err != nil {
		return DayAnalytics{}, err
	}

	focus := ComputeFocusStats(day.Events, ignored, deep)
	bounds := domain.Bounds(dayT0)
	coffees := NormalizeCoffeeEvents(payload.CoffeeEvents)
	plan := BuildCoffeePlan(bounds, coffees, sleepClock, now, loc)
	isToday := now >= bounds.T0 && now < bounds.T1

	return DayAnalytics{
		Focus:        focus,
		FocusTip:     AdviceForFocusStats(focus),
		Hacking:      ComputeHackingStats(day.Events, payload.KeyfreqEvents, deep),
		Keys:         ComputeKeyStats(day.Events, payload.KeyfreqEvents),
		Coffee:       plan,
		CoffeeAdvice: AdviceForPlan(plan, isToday, loc),
		Totals:       day.Totals,
		Colors:       ColorHash(day.Categories),
	}, nil
}
