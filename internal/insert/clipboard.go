// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     insert
// Description: Clipboard-based paste insertion
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package insert

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"

	"github.com/msto63/wavetype/internal/logging"
)

// ClipboardInserter inserts text by placing it on the clipboard and sending
// the platform paste chord to the focused application. The previous clipboard
// content is restored afterwards.
type ClipboardInserter struct {
	opts   Options
	logger *logging.Logger
	paste  func() error
}

// NewClipboardInserter creates a clipboard inserter. On Linux the virtual
// keyboard needs a moment to register with the input subsystem before the
// first keystroke can be sent.
func NewClipboardInserter(opts Options) (*ClipboardInserter, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}

	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}

	return &ClipboardInserter{
		opts:   opts,
		logger: logging.New("insert"),
		paste:  kb.Launching,
	}, nil
}

// Insert places the text at the cursor of the focused application. Empty or
// whitespace-only text is a no-op.
func (c *ClipboardInserter) Insert(text string) error {
	prepared := prepareText(text, c.opts.AddSpaceAfter)
	if prepared == "" {
		return nil
	}

	previous, err := clipboard.ReadAll()
	if err != nil {
		// No previous content to restore; not fatal.
		previous = ""
	}

	if err := clipboard.WriteAll(prepared); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	time.Sleep(c.opts.Delay)
	if err := c.paste(); err != nil {
		return fmt.Errorf("failed to send paste keystroke: %w", err)
	}
	time.Sleep(c.opts.Delay)

	if previous != "" {
		if err := clipboard.WriteAll(previous); err != nil {
			c.logger.Warn("Failed to restore clipboard", "error", err)
		}
	}

	c.logger.Debug("Inserted text", "chars", len(prepared))
	return nil
}
