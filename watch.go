// FILE: lixenwraith/tomlcfg/watch.go
package tomlcfg

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures override file watching behavior
type WatchOptions struct {
	// Debounce duration to coalesce bursts of writes into one regeneration
	Debounce time.Duration

	// Logger receives watcher diagnostics
	Logger *slog.Logger
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce: DefaultDebounce,
	}
}

// Watcher reports changes to one override file.
// The parent directory is watched so that creation, removal and atomic
// replacement of the file are all observed.
type Watcher struct {
	path   string
	opts   WatchOptions
	logger *slog.Logger
}

// NewWatcher creates a watcher for the override file at path.
func NewWatcher(path string, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path '%s': %w", path, err)
	}

	// Validate options
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Watcher{path: abs, opts: opts, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is cancelled, calling onChange once per debounced burst of
// changes to the file. onChange runs on the Run goroutine, so calls never overlap.
// Errors from onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory '%s': %w", dir, err)
	}
	w.logger.Debug("Watching override file", "path", w.path, "debounce", w.opts.Debounce)

	fire := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("Override file event", "path", ev.Name, "op", ev.Op.String())

			// Debounce rapid changes
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.opts.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", "path", w.path, "error", err)

		case <-fire:
			if err := onChange(ctx); err != nil {
				w.logger.Error("Regeneration after override change failed", "path", w.path, "error", err)
			}
		}
	}
}
