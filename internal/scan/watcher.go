package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/game-shelf/internal/util"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before rescanning. Copying a game folder in generates a burst of
// events; one scan at the end covers all of them.
const DefaultDebounce = 5 * time.Second

// Watcher rescans the library when its top-level folders change
type Watcher struct {
	scanner  *Scanner
	debounce time.Duration
}

// NewWatcher creates a watcher around an existing scanner. A debounce of
// 0 selects DefaultDebounce.
func NewWatcher(scanner *Scanner, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{scanner: scanner, debounce: debounce}
}

// Watch blocks watching the library directory until the context is
// cancelled. Create, remove and rename events schedule a debounced
// rescan; a removal also prunes entries for vanished folders.
func (w *Watcher) Watch(ctx context.Context, libraryPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(libraryPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", libraryPath, err)
	}

	util.InfoLog("Watching %s for changes (debounce %s)", libraryPath, w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			util.DebugLog("Library change: %s %s", event.Op, event.Name)
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watcher error: %v", err)

		case <-timer.C:
			pending = false
			if _, err := w.scanner.Scan(ctx, libraryPath); err != nil {
				util.ErrorLog("Rescan failed: %v", err)
				continue
			}
			removed, err := w.scanner.PruneMissing(ctx)
			if err != nil {
				util.ErrorLog("Prune failed: %v", err)
			} else if removed > 0 {
				util.InfoLog("Pruned %d entries for removed folders", removed)
			}
		}
	}
}
