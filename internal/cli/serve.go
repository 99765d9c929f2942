package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/watch"
	"github.com/prolifichq/prolific/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and log watcher",
	Long: `Start the local JSON API, the websocket refresh feed, and the
legacy log watcher.

Examples:
  prolific serve              # Start on default port 8080
  prolific serve --port 3000  # Start on port 3000
  prolific serve --no-watch   # Serve without watching the log dir`,
	RunE: runServe,
}

var (
	servePort    int
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from PROLIFIC_PORT)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Disable the legacy log dir watcher")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	// Import whatever the collectors wrote while we were down.
	if _, err := a.importer.Run(ctx, false); err != nil {
		return fmt.Errorf("initial import failed: %w", err)
	}
	if _, err := a.exporter.WriteAll(ctx); err != nil {
		return fmt.Errorf("initial export failed: %w", err)
	}

	hub := web.NewHub()
	go hub.Run(ctx)

	if !serveNoWatch {
		if err := os.MkdirAll(a.cfg.LogDir, 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
		go func() {
			err := watch.Run(ctx, a.cfg.LogDir, watch.DefaultDebounce, func(ctx context.Context) {
				if _, err := a.importer.Run(ctx, false); err != nil {
					fmt.Printf("import failed: %v\n", err)
					return
				}
				if _, err := a.exporter.WriteAll(ctx); err != nil {
					fmt.Printf("export failed: %v\n", err)
					return
				}
				hub.Broadcast(domain.RewindTime(nowUnix(), a.loc))
			})
			if err != nil {
				fmt.Printf("watcher stopped: %v\n", err)
			}
		}()
	}

	port := servePort
	if port == 0 {
		port = a.cfg.Port
	}
	server := web.NewServer(port, a.exporter, a.events, a.coffee, a.blog,
		a.settings, a.importer, a.rules, hub, a.metrics, a.loc)
	return server.Start(ctx)
}
