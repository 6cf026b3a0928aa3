// pattern: Imperative Shell

package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"taskwt/internal/logging"
)

// Watcher observes the tasks base directory and reacts to bindings being
// deleted outside taskwt (rm -rf of a worktree leaves a prunable registry
// entry behind). Each deletion schedules the onStale callback, debounced
// so one bulk removal triggers one prune pass.
type Watcher struct {
	tasksDir string
	debounce time.Duration
	onStale  func()
	logger   *logging.ScopedLogger
}

// New creates a Watcher. onStale is invoked after the debounce window
// whenever directories disappear under tasksDir. A nil logger is replaced
// with a no-op.
func New(tasksDir string, debounce time.Duration, onStale func(), logger *logging.ScopedLogger) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{tasksDir: tasksDir, debounce: debounce, onStale: onStale, logger: logger}
}

// Run watches until ctx is cancelled. The tasks base and every existing
// task directory are watched; task directories created later are added as
// they appear. fsnotify does not recurse, and one level is all the layout
// has: bindings are immediate children of task directories.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.tasksDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.tasksDir, err)
	}
	entries, err := os.ReadDir(w.tasksDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.tasksDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.addTaskDir(fw, filepath.Join(w.tasksDir, entry.Name()))
		}
	}

	w.logger.Info("watching tasks directory", "path", w.tasksDir)

	// Timer is armed on the first stale event and drained after firing.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Op.Has(fsnotify.Create):
				if filepath.Dir(event.Name) == w.tasksDir && isDir(event.Name) {
					w.addTaskDir(fw, event.Name)
				}
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				w.logger.Info("external deletion detected", "path", event.Name)
				if pending {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-timer.C:
			pending = false
			if w.onStale != nil {
				w.logger.Info("running prune after external deletions")
				w.onStale()
			}
		}
	}
}

func (w *Watcher) addTaskDir(fw *fsnotify.Watcher, path string) {
	if err := fw.Add(path); err != nil {
		w.logger.Warn("cannot watch task directory", "path", path, "error", err)
		return
	}
	w.logger.Debug("watching task directory", "path", path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
