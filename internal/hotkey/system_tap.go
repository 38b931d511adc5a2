// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Fallback tap using OS-registered hotkeys (golang.design/x/hotkey)
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// SystemTap is an EventTap for environments without a raw keyboard hook
// (e.g. Wayland sessions). It registers the combination as an OS hotkey and
// synthesizes press/release events for the combo's keys from the hotkey's
// keydown/keyup notifications. Unlike HookTap it only observes its own
// combination, which is sufficient for the single recording hotkey.
type SystemTap struct {
	mu      sync.Mutex
	combo   string
	hk      *xhotkey.Hotkey
	handler func(KeyEvent)
	done    chan struct{}
}

// NewSystemTap creates a tap for the given combination string.
func NewSystemTap(combo string) *SystemTap {
	return &SystemTap{combo: combo}
}

// Install registers the OS hotkey and starts forwarding synthetic key events.
func (t *SystemTap) Install(handler func(KeyEvent)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hk != nil {
		return fmt.Errorf("system hotkey already installed")
	}

	t.handler = handler
	return t.registerLocked()
}

// Uninstall unregisters the OS hotkey.
func (t *SystemTap) Uninstall() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hk == nil {
		return fmt.Errorf("system hotkey not installed")
	}
	t.unregisterLocked()
	return nil
}

// Retarget re-registers the tap for a new combination. Safe to call while
// installed; when not installed only the stored combination changes.
func (t *SystemTap) Retarget(combo string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, _, err := comboToSystem(combo); err != nil {
		return err
	}

	previous := t.combo
	t.combo = combo
	if t.hk == nil {
		return nil
	}

	t.unregisterLocked()
	if err := t.registerLocked(); err != nil {
		t.combo = previous
		// Restore the previous registration; it was valid before.
		if restoreErr := t.registerLocked(); restoreErr != nil {
			return fmt.Errorf("failed to register %q and to restore %q: %w", combo, previous, restoreErr)
		}
		return err
	}
	return nil
}

func (t *SystemTap) registerLocked() error {
	mods, key, err := comboToSystem(t.combo)
	if err != nil {
		return err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register system hotkey %q: %w", t.combo, err)
	}

	keys, _ := ParseCombo(t.combo)
	done := make(chan struct{})
	t.hk = hk
	t.done = done
	handler := t.handler

	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				for name := range keys {
					handler(KeyEvent{Name: name, Pressed: true})
				}
			case <-hk.Keyup():
				for name := range keys {
					handler(KeyEvent{Name: name, Pressed: false})
				}
			}
		}
	}()

	return nil
}

func (t *SystemTap) unregisterLocked() {
	close(t.done)
	t.hk.Unregister()
	t.hk = nil
}

// comboToSystem splits a combination into OS modifiers plus exactly one
// regular key, the shape the system hotkey API requires.
func comboToSystem(combo string) ([]xhotkey.Modifier, xhotkey.Key, error) {
	keys, err := ParseCombo(combo)
	if err != nil {
		return nil, 0, err
	}

	var mods []xhotkey.Modifier
	var key xhotkey.Key
	haveKey := false

	for name := range keys {
		if mod, ok := systemModifiers[name]; ok {
			mods = append(mods, mod)
			continue
		}
		k, ok := systemKeys[name]
		if !ok {
			return nil, 0, fmt.Errorf("key %q is not supported by the system hotkey backend", name)
		}
		if haveKey {
			return nil, 0, fmt.Errorf("combination %q has more than one non-modifier key", combo)
		}
		key = k
		haveKey = true
	}

	if !haveKey {
		return nil, 0, fmt.Errorf("combination %q needs one non-modifier key", combo)
	}
	return mods, key, nil
}

// systemKeys maps canonical key names to the cross-platform key constants.
var systemKeys = map[string]xhotkey.Key{
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD,
	"e": xhotkey.KeyE, "f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH,
	"i": xhotkey.KeyI, "j": xhotkey.KeyJ, "k": xhotkey.KeyK, "l": xhotkey.KeyL,
	"m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO, "p": xhotkey.KeyP,
	"q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX,
	"y": xhotkey.KeyY, "z": xhotkey.KeyZ,
	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3,
	"4": xhotkey.Key4, "5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7,
	"8": xhotkey.Key8, "9": xhotkey.Key9,
	"space": xhotkey.KeySpace,
	"enter": xhotkey.KeyReturn,
	"esc":   xhotkey.KeyEscape,
	"tab":   xhotkey.KeyTab,
}
