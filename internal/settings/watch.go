// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     settings
// Description: File watcher for live settings reload
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/msto63/wavetype/internal/logging"
)

// Watcher reloads the store when its backing file changes on disk and
// notifies the registered handler.
type Watcher struct {
	store    *Store
	onReload func()
	logger   *logging.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	running bool
}

// NewWatcher creates a watcher for the store. onReload is called after each
// successful reload, never concurrently with itself.
func NewWatcher(store *Store, onReload func()) *Watcher {
	return &Watcher{
		store:    store,
		onReload: onReload,
		logger:   logging.New("settings-watcher"),
	}
}

// Start begins watching the settings file's directory. Editors typically
// replace files via rename, so watching the directory is more reliable than
// watching the file itself.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.store.FilePath())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch settings dir: %w", err)
	}

	w.watcher = watcher
	w.running = true
	w.logger.Info("Watching settings file", "path", w.store.FilePath())

	go w.watchLoop(ctx, watcher)
	return nil
}

// debounceDelay coalesces the burst of events editors fire per save. The
// timer re-arms on every event, so the last save in a burst always applies.
const debounceDelay = 500 * time.Millisecond

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		watcher.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Stopping settings watcher")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.FilePath() {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload = time.After(debounceDelay)

		case <-reload:
			reload = nil
			if err := w.store.Load(); err != nil {
				w.logger.Error("Failed to reload settings", "error", err)
				continue
			}
			w.logger.Info("Settings reloaded", "path", w.store.FilePath())
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}
