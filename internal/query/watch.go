package query

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 150 * time.Millisecond

// Watch monitors the database file and calls onChange when filesystem
// events settle. SQLite writes through journal files next to the
// database, so the whole directory is watched and events are matched by
// filename prefix. Blocks until the context is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(path)

	var debounceTimer *time.Timer
	for {
		var debounceC <-chan time.Time
		if debounceTimer != nil {
			debounceC = debounceTimer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(debounce)
			} else {
				debounceTimer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok || err == nil {
				continue
			}
			log.Printf("watch error: %v", err)
		case <-debounceC:
			debounceTimer = nil
			onChange()
		}
	}
}
