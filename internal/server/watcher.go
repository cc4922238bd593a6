package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the server's Generator when the base template, a package
// manifest or the set of packages changes.
type Watcher struct {
	server       *Server
	watcher      *fsnotify.Watcher
	template     string
	packagesDir  string
	debounceTime time.Duration
	reloadChan   chan struct{}
	stopOnce     sync.Once
	stopChan     chan struct{}
	reloaded     func()
}

// NewWatcher creates a watcher for s. A zero debounce uses DefaultDebounce.
func NewWatcher(s *Server, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root := s.Generator().Root()
	return &Watcher{
		server:       s,
		watcher:      fw,
		template:     filepath.Join(root, s.cfg.Template),
		packagesDir:  filepath.Join(root, s.cfg.PackagesDir),
		debounceTime: debounce,
		reloadChan:   make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}, nil
}

// Start watches the template directory, the packages directory and every
// package directory, then runs until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := []string{filepath.Dir(w.template), w.packagesDir}
	entries, err := os.ReadDir(w.packagesDir)
	if err != nil {
		return fmt.Errorf("failed to list packages directory %s: %w", w.packagesDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(w.packagesDir, e.Name()))
		}
	}
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	slog.Info("Watching documentation sources", logfields.Path(w.packagesDir), slog.Int("dirs", len(dirs)))
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.triggerReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

// relevant reports whether event can change the package index or base page.
// New package directories are added to the watch list.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Name == w.template {
		return true
	}
	if filepath.Base(event.Name) == packaging.ManifestFile {
		return true
	}
	if filepath.Dir(event.Name) != w.packagesDir {
		return false
	}
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				slog.Warn("Failed to watch new package directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer
	stop := func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopChan:
			stop()
			return
		case <-w.reloadChan:
			stop()
			reloadTimer = time.AfterFunc(w.debounceTime, func() {
				if err := w.server.Reload(); err == nil && w.reloaded != nil {
					w.reloaded()
				}
			})
		}
	}
}

// triggerReload requests a debounced reload.
func (w *Watcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
		// Reload already pending
	}
}
