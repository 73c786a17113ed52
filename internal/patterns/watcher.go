package patterns

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceWindow coalesces editor write bursts into a single reload.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads a pattern file on change and hands the freshly compiled
// Tables to the swap callback. Each Tables value stays immutable; consumers
// swap the pointer.
type Watcher struct {
	path   string
	onSwap func(*Tables)
	logger *zap.Logger
}

// NewWatcher creates a pattern-file watcher.
func NewWatcher(path string, onSwap func(*Tables), logger *zap.Logger) *Watcher {
	return &Watcher{path: path, onSwap: onSwap, logger: logger}
}

// Run watches until the context is canceled. Reload failures keep the
// previous tables in place.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory: editors replace files via rename, which drops
	// a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var debounce *time.Timer
	reload := func() {
		tables, err := LoadFile(w.path)
		if err != nil {
			w.logger.Warn("pattern reload failed, keeping previous tables",
				zap.String("path", w.path), zap.Error(err))
			return
		}
		w.logger.Info("pattern tables reloaded", zap.String("path", w.path))
		w.onSwap(tables)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, reload)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("pattern watcher error", zap.Error(err))
		}
	}
}
