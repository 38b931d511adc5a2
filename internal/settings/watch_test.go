// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     settings
// Description: Tests for the settings file watcher
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reloaded := make(chan struct{}, 1)
	watcher := NewWatcher(store, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	content := "[hotkey]\nrecord = \"ctrl+d\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := store.GetString("hotkey.record", ""); got != "ctrl+d" {
		t.Errorf("hotkey.record after reload = %q, want %q", got, "ctrl+d")
	}
}

func TestWatcherAppliesLastOfRapidSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reloaded := make(chan struct{}, 4)
	watcher := NewWatcher(store, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Two saves in quick succession: the debounce must defer, not drop,
	// so the second save's content is what ends up applied.
	if err := os.WriteFile(path, []byte("[hotkey]\nrecord = \"ctrl+a\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("[hotkey]\nrecord = \"ctrl+b\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := store.GetString("hotkey.record", ""); got != "ctrl+b" {
		t.Errorf("hotkey.record after rapid saves = %q, want %q", got, "ctrl+b")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "settings.toml"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reloaded := make(chan struct{}, 1)
	watcher := NewWatcher(store, func() { reloaded <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloaded:
		t.Error("reload triggered by an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
