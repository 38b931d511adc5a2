// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     insert
// Description: Insertion of transcribed text at the cursor position
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package insert

import (
	"strings"
	"time"
)

// Inserter places transcribed text into the currently focused application.
type Inserter interface {
	Insert(text string) error
}

// Options holds insertion behavior settings.
type Options struct {
	// Delay is the pause before and after the paste keystroke, giving the
	// focused application time to process the clipboard change.
	Delay time.Duration

	// AddSpaceAfter appends a trailing space so consecutive dictations do
	// not run together.
	AddSpaceAfter bool
}

// DefaultOptions returns the standard insertion options.
func DefaultOptions() Options {
	return Options{
		Delay:         100 * time.Millisecond,
		AddSpaceAfter: true,
	}
}

// prepareText trims the transcription and applies the trailing space option.
// An empty result means nothing should be inserted.
func prepareText(text string, addSpaceAfter bool) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if addSpaceAfter {
		return trimmed + " "
	}
	return trimmed
}
