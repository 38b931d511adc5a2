// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Raw keyboard event tap backed by gohook
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

import (
	"fmt"
	"sync"

	hook "github.com/robotn/gohook"
)

// HookTap delivers raw global key press/release events via the gohook
// OS-level keyboard hook. Only one instance can be installed per process,
// since the underlying hook is process-wide.
type HookTap struct {
	mu        sync.Mutex
	installed bool
	done      chan struct{}
}

// NewHookTap creates an uninstalled tap.
func NewHookTap() *HookTap {
	return &HookTap{}
}

// Install starts the keyboard hook and forwards key events to the handler
// from a reader goroutine. Key repeats arrive as hold events and are
// forwarded as presses; the engine's set semantics debounce them.
func (t *HookTap) Install(handler func(KeyEvent)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.installed {
		return fmt.Errorf("keyboard hook already installed")
	}

	events := hook.Start()
	done := make(chan struct{})
	t.done = done
	t.installed = true

	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				switch ev.Kind {
				case hook.KeyDown, hook.KeyHold:
					handler(KeyEvent{Name: hook.RawcodetoKeychar(ev.Rawcode), Pressed: true})
				case hook.KeyUp:
					handler(KeyEvent{Name: hook.RawcodetoKeychar(ev.Rawcode), Pressed: false})
				}
			}
		}
	}()

	return nil
}

// Uninstall stops the keyboard hook.
func (t *HookTap) Uninstall() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.installed {
		return fmt.Errorf("keyboard hook not installed")
	}
	t.installed = false
	close(t.done)
	hook.End()
	return nil
}
