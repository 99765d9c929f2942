package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/engine"
	"github.com/prolifichq/prolific/internal/tui"
	"github.com/prolifichq/prolific/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats [day]",
	Short: "Show a day's activity report",
	Long: `Show the full analytics report for one day: category totals,
focus score, hacking streaks, keystroke stats and the coffee plan.

Examples:
  prolific stats             # Today
  prolific stats yesterday
  prolific stats 2026-08-29  # A specific date`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	dayT0, err := parseDayArg(arg, time.Now(), a.loc)
	if err != nil {
		return err
	}

	payload, err := a.exporter.BuildPayload(ctx, dayT0)
	if err != nil {
		return err
	}
	sleepClock, err := a.settings.SleepClock(ctx)
	if err != nil {
		return err
	}
	analytics, err := engine.BuildDayAnalytics(dayT0, payload, a.rules.Classifier.Map,
		a.rules.Ignored, a.rules.DeepSet, sleepClock, nowUnix(), a.loc)
	if err != nil {
		return err
	}
	a.metrics.AnalyticsComputed(ctx)

	rates := make([]float64, 0, len(payload.KeyfreqEvents))
	for _, sample := range payload.KeyfreqEvents {
		rates = append(rates, float64(sample.Count))
	}

	printDayReport(dayT0, payload.Blog, analytics, rates, a.loc)
	return nil
}

func printDayReport(dayT0 int64, blog string, an engine.DayAnalytics, keyRates []float64, loc *time.Location) {
	fmt.Println()
	fmt.Printf("  Prolific — %s\n", util.FormatDayStamp(dayT0, loc))
	fmt.Printf("  =====================================\n")
	fmt.Println()

	fmt.Printf("  Time by category\n")
	fmt.Printf("  ----------------\n")
	type catTotal struct {
		name  string
		total int64
	}
	cats := make([]catTotal, 0, len(an.Totals))
	for name, total := range an.Totals {
		cats = append(cats, catTotal{name, total})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].total > cats[j].total })
	for _, c := range cats {
		fmt.Printf("  %-22s %s\n", c.name, util.FormatDuration(c.total))
	}
	if len(cats) == 0 {
		fmt.Printf("  (no activity recorded)\n")
	}
	fmt.Println()

	fmt.Printf("  Focus\n")
	fmt.Printf("  -----\n")
	fmt.Printf("  Active time:       %s\n", util.FormatDuration(an.Focus.ActiveSeconds))
	fmt.Printf("  Context tax:       %s (%.1f%%)\n", util.FormatDuration(an.Focus.TaxSeconds), an.Focus.TaxPercent)
	fmt.Printf("  Coherence:         %d/100\n", an.Focus.Coherence)
	fmt.Printf("  Switches:          %d (%d short hops)\n", an.Focus.Switches, an.Focus.ShortHops)
	fmt.Printf("  Deep blocks:       %d\n", an.Focus.DeepBlocks)
	fmt.Printf("  Tip:               %s\n", an.FocusTip)
	fmt.Println()

	fmt.Printf("  Hacking\n")
	fmt.Printf("  -------\n")
	fmt.Printf("  Total:             %s across %d blocks\n",
		util.FormatDuration(an.Hacking.TotalSeconds), len(an.Hacking.Blocks))
	fmt.Printf("  Keys:              %s\n", util.FormatNumber(an.Hacking.TotalKeys))
	if len(keyRates) > 0 {
		fmt.Printf("  Typing:            %s\n", tui.Sparkline(keyRates, 40))
	}
	fmt.Println()

	fmt.Printf("  Coffee\n")
	fmt.Printf("  ------\n")
	fmt.Printf("  Cups:              %d taken, %d left\n", an.Coffee.CupsTaken, an.Coffee.CupsLeft)
	fmt.Printf("  Circulating:       %.0f mg\n", an.Coffee.CaffeineNowMg)
	fmt.Printf("  %s\n", indentLines(an.CoffeeAdvice, "  "))

	if blog != "" {
		fmt.Println()
		fmt.Printf("  Notes on the day\n")
		fmt.Printf("  ----------------\n")
		fmt.Printf("  %s\n", blog)
	}
	fmt.Println()
}
