package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/util"
)

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List every tracked day",
	RunE:  runDays,
}

func init() {
	rootCmd.AddCommand(daysCmd)
}

func runDays(cmd *cobra.Command, args []string) error {
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
	if len(index) == 0 {
		fmt.Println("No tracked days yet. Run `prolific import` first.")
		return nil
	}
	for _, day := range index {
		fmt.Printf("%s  t0=%d  %s\n", util.FormatDayStamp(day.T0, a.loc), day.T0, day.Fname)
	}
	return nil
}
