package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/adapters/turso"
	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/engine"
)

var coffeeCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Log a coffee and show the updated plan",
	Long: `Log one cup of coffee, then print the remaining plan for today:
how many cups are left, when to take them, and the sleep cutoff.

Examples:
  prolific coffee           # Log a standard 100 mg cup now
  prolific coffee --mg 60   # Log an espresso`,
	RunE: runCoffee,
}

var (
	coffeeMg   int
	coffeeTime int64
)

func init() {
	rootCmd.AddCommand(coffeeCmd)
	coffeeCmd.Flags().IntVar(&coffeeMg, "mg", engine.CoffeeDefaultMg, "Caffeine dose in milligrams")
	coffeeCmd.Flags().Int64VarP(&coffeeTime, "time", "t", 0, "Unix timestamp for the cup (default now)")
}

func runCoffee(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	t := coffeeTime
	if t == 0 {
		t = nowUnix()
	}

	err = a.coffee.Add(ctx, t, coffeeMg)
	if errors.Is(err, turso.ErrDailyCap) {
		fmt.Printf("Daily cap of %d cups reached. No more coffee today.\n", engine.CoffeeDailyLimit)
		return nil
	}
	if err != nil {
		return err
	}

	dayT0 := domain.RewindTime(t, a.loc)
	coffees, err := a.coffee.ForDay(ctx, dayT0)
	if err != nil {
		return err
	}
	sleepClock, err := a.settings.SleepClock(ctx)
	if err != nil {
		return err
	}

	now := nowUnix()
	plan := engine.BuildCoffeePlan(domain.Bounds(dayT0),
		engine.NormalizeCoffeeEvents(coffees), sleepClock, now, a.loc)
	isToday := now >= dayT0 && now < dayT0+domain.DaySeconds

	fmt.Printf("Cup %d logged (%d mg at %s)\n", plan.CupsTaken, coffeeMg,
		time.Unix(t, 0).In(a.loc).Format("15:04"))
	fmt.Println(engine.AdviceForPlan(plan, isToday, a.loc))
	return nil
}
