package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note <text>...",
	Short: "Record a note at the current time",
	Long: `Record a free-text note pinned to a point in time.

Examples:
  prolific note finished the importer
  prolific note --time 1734861600 "standup done"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNote,
}

var noteTime int64

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.Flags().Int64VarP(&noteTime, "time", "t", 0, "Unix timestamp for the note (default now)")
}

func runNote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	t := noteTime
	if t == 0 {
		t = nowUnix()
	}
	id, err := a.events.InsertNote(ctx, t, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Noted (%s)\n", id)
	return nil
}
