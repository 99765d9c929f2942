package engine

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prolifichq/prolific/internal/domain"
)

// testDay returns a day starting 2024-12-22 07:00 UTC.
func testDay(t *testing.T) domain.DayLog {
	t.Helper()
	t0 := time.Date(2024, 12, 22, 7, 0, 0, 0, time.UTC).Unix()
	return domain.Bounds(t0)
}

func clockTS(t *testing.T, hour, min int) int64 {
	t.Helper()
	return time.Date(2024, 12, 22, hour, min, 0, 0, time.UTC).Unix()
}

func TestCaffeineAt_HalfLife(t *testing.T) {
	coffees := []domain.CoffeeEvent{{T: 0, Mg: 100}}

	got := CaffeineAt(coffees, 18000)
	if math.Abs(got-50.0) > 1e-9 {
		t.Errorf("CaffeineAt(18000) = %f, want 50.0 after one half-life", got)
	}

	if got := CaffeineAt(coffees, 0); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("CaffeineAt(0) = %f, want 100.0", got)
	}

	// Doses in the future do not contribute.
	if got := CaffeineAt(coffees, -1); got != 0 {
		t.Errorf("CaffeineAt(-1) = %f, want 0", got)
	}
}

func TestCaffeineAt_MonotonicDecayAfterLastDose(t *testing.T) {
	coffees := []domain.CoffeeEvent{
		{T: 0, Mg: 120},
		{T: 7200, Mg: 80},
	}
	prev := math.Inf(1)
	for ts := int64(7200); ts < 7200+10*18000; ts += 3600 {
		cur := CaffeineAt(coffees, ts)
		if cur > prev {
			t.Fatalf("caffeine increased after last dose: %f -> %f at t=%d", prev, cur, ts)
		}
		prev = cur
	}
}

func TestNormalizeCoffeeEvents(t *testing.T) {
	in := []domain.CoffeeEvent{
		{T: 300, Mg: 100},
		{T: 100, Mg: 80},
		{T: 200, Mg: 0},
		{T: 150, Mg: -50},
	}
	got := NormalizeCoffeeEvents(in)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (non-positive doses dropped)", len(got))
	}
	if got[0].T != 100 || got[1].T != 300 {
		t.Errorf("not sorted by time: %+v", got)
	}
	// Input untouched.
	if in[0].T != 300 {
		t.Errorf("input slice was mutated: %+v", in)
	}
}

func TestSleepTimestamp(t *testing.T) {
	day := testDay(t)

	tests := []struct {
		name  string
		clock string
		want  int64
	}{
		{"default evening clock", "23:00", clockTS(t, 23, 0)},
		{"explicit time", "21:30", clockTS(t, 21, 30)},
		{"before day break rolls forward", "02:00", clockTS(t, 2, 0) + domain.DaySeconds},
		{"malformed falls back to 23:00", "nonsense", clockTS(t, 23, 0)},
		{"out of range falls back", "27:90", clockTS(t, 23, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SleepTimestamp(day.T0, tt.clock, time.UTC)
			if got != tt.want {
				t.Errorf("SleepTimestamp(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestValidSleepClock(t *testing.T) {
	valid := []string{"23:00", "07:45", "00:00"}
	invalid := []string{"", "7:45", "24:00", "12:60", "ab:cd", "12-30"}
	for _, c := range valid {
		if !ValidSleepClock(c) {
			t.Errorf("ValidSleepClock(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if ValidSleepClock(c) {
			t.Errorf("ValidSleepClock(%q) = true, want false", c)
		}
	}
}

func TestBuildCoffeePlan_SlotGeneration(t *testing.T) {
	day := testDay(t)
	now := clockTS(t, 8, 0)

	plan := BuildCoffeePlan(day, nil, "23:00", now, time.UTC)

	if plan.CupsTaken != 0 || plan.CupsLeft != 3 {
		t.Fatalf("cups = %d taken / %d left", plan.CupsTaken, plan.CupsLeft)
	}
	if plan.CutoffTS != clockTS(t, 15, 0) {
		t.Errorf("CutoffTS = %d, want 15:00", plan.CutoffTS)
	}
	want := []int64{clockTS(t, 8, 0), clockTS(t, 11, 0), clockTS(t, 14, 0)}
	if len(plan.NextSlots) != 3 {
		t.Fatalf("NextSlots = %v, want 3 slots", plan.NextSlots)
	}
	for i, ts := range want {
		if plan.NextSlots[i] != ts {
			t.Errorf("slot %d = %d, want %d", i, plan.NextSlots[i], ts)
		}
	}
}

func TestBuildCoffeePlan_SpacingAfterLastCup(t *testing.T) {
	day := testDay(t)
	coffees := NormalizeCoffeeEvents([]domain.CoffeeEvent{{T: clockTS(t, 7, 30), Mg: 100}})
	now := clockTS(t, 8, 0)

	plan := BuildCoffeePlan(day, coffees, "23:00", now, time.UTC)

	if plan.CupsTaken != 1 || plan.CupsLeft != 2 {
		t.Fatalf("cups = %d taken / %d left", plan.CupsTaken, plan.CupsLeft)
	}
	// 3h minimum spacing pushes the first slot to 10:30.
	want := []int64{clockTS(t, 10, 30), clockTS(t, 13, 30)}
	if len(plan.NextSlots) != 2 || plan.NextSlots[0] != want[0] || plan.NextSlots[1] != want[1] {
		t.Errorf("NextSlots = %v, want %v", plan.NextSlots, want)
	}
}

func TestBuildCoffeePlan_DailyCapReached(t *testing.T) {
	day := testDay(t)
	coffees := []domain.CoffeeEvent{
		{T: clockTS(t, 8, 0), Mg: 100},
		{T: clockTS(t, 11, 0), Mg: 100},
		{T: clockTS(t, 14, 0), Mg: 100},
	}

	// Regardless of time of day.
	for _, now := range []int64{clockTS(t, 9, 0), clockTS(t, 14, 30), day.T1 - 1} {
		plan := BuildCoffeePlan(day, coffees, "23:00", now, time.UTC)
		if plan.CupsLeft != 0 {
			t.Errorf("now=%d: CupsLeft = %d, want 0", now, plan.CupsLeft)
		}
		if len(plan.NextSlots) != 0 {
			t.Errorf("now=%d: NextSlots = %v, want empty", now, plan.NextSlots)
		}
	}
}

func TestBuildCoffeePlan_CutoffStopsSlots(t *testing.T) {
	day := testDay(t)
	// 14:30 now, cutoff 15:00: one slot fits, the next (17:30) does not.
	plan := BuildCoffeePlan(day, nil, "23:00", clockTS(t, 14, 30), time.UTC)
	if len(plan.NextSlots) != 1 {
		t.Errorf("NextSlots = %v, want exactly 1", plan.NextSlots)
	}

	// Past the cutoff entirely: no slots.
	plan = BuildCoffeePlan(day, nil, "23:00", clockTS(t, 16, 0), time.UTC)
	if len(plan.NextSlots) != 0 {
		t.Errorf("NextSlots = %v, want empty past cutoff", plan.NextSlots)
	}
}

func TestAdviceForPlan(t *testing.T) {
	day := testDay(t)
	cap3 := []domain.CoffeeEvent{
		{T: clockTS(t, 8, 0), Mg: 100},
		{T: clockTS(t, 10, 0), Mg: 100},
		{T: clockTS(t, 13, 0), Mg: 100},
	}

	tests := []struct {
		name    string
		coffees []domain.CoffeeEvent
		now     int64
		isToday bool
		first   string
	}{
		{
			name:    "cap reached wins over everything",
			coffees: cap3,
			now:     clockTS(t, 14, 0),
			isToday: true,
			first:   "Daily cap reached (3/3). Skip more caffeine today to protect sleep.",
		},
		{
			name:    "historical day notice",
			coffees: nil,
			now:     day.T1 - 1,
			isToday: false,
			first:   "Viewing a historical day. Logging is enabled only for the current day.",
		},
		{
			name:    "inside no-caffeine window",
			coffees: nil,
			now:     clockTS(t, 16, 0),
			isToday: true,
			first:   "You are inside the no-caffeine window before sleep. Skip the next cup today.",
		},
		{
			name:    "slot list",
			coffees: nil,
			now:     clockTS(t, 8, 0),
			isToday: true,
			first:   "Cup 1: around 8:00 AM | Cup 2: around 11:00 AM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildCoffeePlan(day, tt.coffees, "23:00", tt.now, time.UTC)
			advice := AdviceForPlan(plan, tt.isToday, time.UTC)
			lines := strings.Split(advice, "\n")
			if lines[0] != tt.first {
				t.Errorf("first line = %q, want %q", lines[0], tt.first)
			}
			wantCutoff := "Sleep-protection caffeine cutoff: 3:00 PM (~8h before target sleep)."
			if lines[1] != wantCutoff {
				t.Errorf("cutoff line = %q, want %q", lines[1], wantCutoff)
			}
		})
	}
}

func TestAdviceForPlan_NotEnoughTimeBeforeCutoff(t *testing.T) {
	day := testDay(t)
	// One cup at 13:00 pushes the next slot to 16:00, past the 15:00
	// cutoff, while now (13:30) is still before it.
	coffees := []domain.CoffeeEvent{{T: clockTS(t, 13, 0), Mg: 100}}
	plan := BuildCoffeePlan(day, coffees, "23:00", clockTS(t, 13, 30), time.UTC)
	if len(plan.NextSlots) != 0 {
		t.Fatalf("NextSlots = %v, want empty", plan.NextSlots)
	}

	advice := AdviceForPlan(plan, true, time.UTC)
	want := "Not enough time remains before your sleep cutoff for another full coffee window."
	if !strings.HasPrefix(advice, want) {
		t.Errorf("advice = %q, want prefix %q", advice, want)
	}
}

func TestAdviceForPlan_BedtimeWarning(t *testing.T) {
	day := testDay(t)
	// 150 mg at 14:00, bedtime 23:00: 9h later ~43 mg remain (>= 30).
	coffees := []domain.CoffeeEvent{{T: clockTS(t, 14, 0), Mg: 150}}
	plan := BuildCoffeePlan(day, coffees, "23:00", clockTS(t, 14, 30), time.UTC)

	if plan.CaffeineBedtimeMg < 30 {
		t.Fatalf("CaffeineBedtimeMg = %f, expected >= 30 for this fixture", plan.CaffeineBedtimeMg)
	}
	advice := AdviceForPlan(plan, true, time.UTC)
	if !strings.Contains(advice, "Estimated bedtime circulating caffeine is still elevated") {
		t.Errorf("advice missing bedtime warning: %q", advice)
	}
}
