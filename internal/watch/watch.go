// Package watch monitors the legacy log directory and triggers a refresh
// whenever the collector writes new lines. Write bursts are debounced so
// one save does not cause repeated imports.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long after the last write a refresh fires.
const DefaultDebounce = 500 * time.Millisecond

// Run watches dir until ctx is cancelled and calls onBurst after each
// debounced burst of write or create events. Collectors append to their
// log files constantly; editors often save via rename, so create events
// count too.
func Run(ctx context.Context, dir string, debounce time.Duration, onBurst func(context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for new activity\n", dir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			onBurst(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("watcher error: %v\n", err)
		}
	}
}
