// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Event tap abstraction over the OS key-event sources
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

// KeyEvent is one raw key transition as delivered by the OS hook. Name is the
// un-normalized key name from the event source; the engine normalizes it.
type KeyEvent struct {
	Name    string
	Pressed bool
}

// EventTap delivers global key events to a handler. Install must return
// promptly; implementations deliver events from their own goroutine or the
// OS hook thread, and the handler must not block.
type EventTap interface {
	// Install starts event delivery to the handler.
	Install(handler func(KeyEvent)) error

	// Uninstall stops event delivery and releases the hook.
	Uninstall() error
}
