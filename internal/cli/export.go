package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/adapters/turso"
	"github.com/prolifichq/prolific/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write render JSON files for every tracked day",
	Long: `Rebuild the render directory: one events_<t0>.json per day plus
export_list.json, in the format the static day view reads.`,
	RunE: runExport,
}

var exportOut string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output directory (default: the render dir under the data dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	outDir := a.cfg.RenderDir()
	if exportOut != "" {
		outDir = exportOut
		a.exporter = export.New(a.events, a.coffee, a.blog,
			func(ctx context.Context) ([]int64, error) {
				return turso.ListDayTimestamps(ctx, a.db.DB)
			}, outDir)
	}

	index, err := a.exporter.WriteAll(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("Wrote %d day files to %s\n", len(index), outDir)
	return nil
}
