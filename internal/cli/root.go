package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prolific",
	Short: "Personal activity tracker and analytics engine",
	Long: `prolific turns raw window, keystroke, note and coffee logs into
per-day analytics: where the time went, how fragmented the focus was,
how much hacking got done, and when the next coffee still makes sense.

Data is collected by external loggers; prolific imports their files,
stores everything in a local database, serves a JSON API for the day
view, and renders summaries straight in the terminal.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
