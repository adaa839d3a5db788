package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// debounceWindow coalesces the write bursts editors produce on save.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the configuration when its file changes on disk.
type Watcher struct {
	path     string
	log      *logging.Logger
	onReload func(*Config)
}

// NewWatcher creates a watcher for an explicit config file. onReload is
// called with each successfully loaded and validated configuration.
func NewWatcher(path string, log *logging.Logger, onReload func(*Config)) *Watcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Watcher{path: path, log: log, onReload: onReload}
}

// Run watches until the context is canceled. Invalid intermediate states are
// logged and skipped; the previous configuration stays active.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory: editors replace files on save, which drops the
	// watch when it is bound to the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var debounce *time.Timer
	reload := func() {
		cfg, err := NewLoader().WithConfigFile(w.path).Load()
		if err != nil {
			w.log.Warn("config reload failed", "path", w.path, "error", err)
			return
		}
		if err := Validate(cfg); err != nil {
			w.log.Warn("reloaded config invalid, keeping previous", "error", err)
			return
		}
		w.log.Info("configuration reloaded", "path", w.path)
		w.onReload(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
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
			w.log.Warn("config watcher error", "error", err)
		}
	}
}
