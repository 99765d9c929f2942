package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/engine"
	"github.com/prolifichq/prolific/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse tracked days in the terminal",
	RunE:  runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	index, err := a.exporter.DayIndex(ctx)
	if err != nil {
		return err
	}
	days := make([]int64, 0, len(index))
	for _, day := range index {
		days = append(days, day.T0)
	}

	loader := func(ctx context.Context, dayT0 int64) (tui.DayReport, error) {
		payload, err := a.exporter.BuildPayload(ctx, dayT0)
		if err != nil {
			return tui.DayReport{}, err
		}
		sleepClock, err := a.settings.SleepClock(ctx)
		if err != nil {
			return tui.DayReport{}, err
		}
		analytics, err := engine.BuildDayAnalytics(dayT0, payload, a.rules.Classifier.Map,
			a.rules.Ignored, a.rules.DeepSet, sleepClock, nowUnix(), a.loc)
		if err != nil {
			return tui.DayReport{}, err
		}
		a.metrics.AnalyticsComputed(ctx)

		rates := make([]float64, 0, len(payload.KeyfreqEvents))
		for _, sample := range payload.KeyfreqEvents {
			rates = append(rates, float64(sample.Count))
		}
		return tui.DayReport{
			DayT0:     dayT0,
			Blog:      payload.Blog,
			Analytics: analytics,
			KeyRates:  rates,
		}, nil
	}

	program := tea.NewProgram(tui.NewModel(days, loader, a.loc), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
