// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     audio
// Description: Transient recording artifact with exactly-once cleanup
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package audio

import (
	"os"
	"sync"
	"time"
)

// Artifact is one finished recording: the captured samples plus the temporary
// WAV file written for the transcription engine. The file is transient and
// must be removed once transcription is done; Release is safe to call from
// both the success path and deferred cleanup because only the first call acts.
type Artifact struct {
	ID         string
	Path       string
	SampleRate int
	Channels   int
	Duration   time.Duration
	Samples    []int16

	releaseOnce sync.Once
}

// Release deletes the temporary WAV file. Subsequent calls are no-ops.
func (a *Artifact) Release() error {
	var err error
	a.releaseOnce.Do(func() {
		if a.Path != "" {
			err = os.Remove(a.Path)
		}
	})
	return err
}
