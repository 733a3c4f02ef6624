package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// manifestWatcher re-runs a callback when a manifest file changes. It
// watches the parent directory because editors often replace files by
// rename rather than writing them in place.
type manifestWatcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
}

func newManifestWatcher(path string, debounce time.Duration, logger *log.Logger) (*manifestWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &manifestWatcher{fsw: fsw, path: abs, debounce: debounce, logger: logger}, nil
}

// Run blocks until ctx is cancelled, calling onChange once per burst of
// events on the manifest. It closes the watcher on return.
func (w *manifestWatcher) Run(ctx context.Context, onChange func(context.Context)) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("manifest changed", "path", w.path, "op", evt.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			onChange(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}
