package cameras

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the registry when its backing file changes. fsnotify when
// available, with a slow polling loop as safety net (mtime-gated so polling
// does not re-parse an unchanged file).
type Watcher struct {
	registry *Registry
	path     string
	logger   *zap.Logger

	mu        sync.Mutex
	lastMtime time.Time
}

func NewWatcher(registry *Registry, path string, logger *zap.Logger) *Watcher {
	w := &Watcher{registry: registry, path: path, logger: logger}
	if fi, err := os.Stat(path); err == nil {
		w.lastMtime = fi.ModTime()
	}
	return w
}

// Start begins watching until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("registry watcher unavailable, polling only", zap.Error(err))
		fsw = nil
	} else if err := fsw.Add(w.path); err != nil {
		w.logger.Warn("cannot watch registry file, polling only",
			zap.String("path", w.path), zap.Error(err))
		fsw.Close()
		fsw = nil
	}

	if fsw != nil {
		go func() {
			defer fsw.Close()
			for {
				select {
				case <-ctx.Done():
					return
				case event, ok := <-fsw.Events:
					if !ok {
						return
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						// Editors often fire several events per save.
						time.Sleep(100 * time.Millisecond)
						w.reload()
					}
				case err, ok := <-fsw.Errors:
					if !ok {
						return
					}
					w.logger.Warn("registry watcher error", zap.Error(err))
				}
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.reloadIfChanged()
			}
		}
	}()
}

func (w *Watcher) reload() {
	if err := w.registry.loadFile(w.path); err != nil {
		w.logger.Error("registry reload failed", zap.Error(err))
		return
	}
	if fi, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.lastMtime = fi.ModTime()
		w.mu.Unlock()
	}
	w.logger.Info("camera registry reloaded", zap.String("path", w.path))
}

func (w *Watcher) reloadIfChanged() {
	fi, err := os.Stat(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	changed := fi.ModTime().After(w.lastMtime)
	w.mu.Unlock()
	if changed {
		w.reload()
	}
}
