package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/tagsphere"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads path with LoadFile whenever it changes and calls fn with the
// new labels. Load errors are logged and skipped. The parent directory is
// watched so editors that save by rename are picked up. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, path string, logger *log.Logger, fn func([]tagsphere.Label)) error {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("source: watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("source: watch %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("source: watch %s: %w", path, err)
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("label watcher error", "path", path, "err", err)
		case <-timer.C:
			labels, err := LoadFile(abs)
			if err != nil {
				logger.Warn("label reload failed", "path", path, "err", err)
				continue
			}
			logger.Info("labels reloaded", "path", path, "count", len(labels))
			fn(labels)
		}
	}
}
