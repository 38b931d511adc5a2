// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     stt
// Description: Transcription service with memoized engine loading
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"os"
	"sync"

	"github.com/msto63/wavetype/internal/logging"
)

// loadState tracks the engine lifecycle. A failed load is remembered so each
// recording does not pay for a doomed retry; Unload resets to unloaded.
type loadState int

const (
	stateUnloaded loadState = iota
	stateLoaded
	stateFailed
)

// Service wraps a Transcriber with memoized loading and asynchronous
// transcription. It is safe for concurrent use.
type Service struct {
	mu     sync.Mutex
	engine Transcriber
	state  loadState
	logger *logging.Logger
}

// NewService creates a transcription service around the given engine.
func NewService(engine Transcriber) *Service {
	return &Service{
		engine: engine,
		logger: logging.New("stt"),
	}
}

// EnsureLoaded loads the engine on first call and reports whether it is
// usable. After a failure it keeps reporting false without retrying until
// Unload is called.
func (s *Service) EnsureLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedLocked()
}

func (s *Service) ensureLoadedLocked() bool {
	switch s.state {
	case stateLoaded:
		return true
	case stateFailed:
		return false
	}

	if err := s.engine.Load(); err != nil {
		s.state = stateFailed
		s.logger.Error("Failed to load transcription engine", "error", err)
		return false
	}
	s.state = stateLoaded
	s.logger.Info("Transcription engine loaded")
	return true
}

// Transcribe transcribes the WAV file at path on a worker goroutine and
// invokes onResult exactly once: (text, true) on success, ("", false) when
// the engine is unavailable, the file is missing or transcription fails.
// Engine load and file existence are validated before the worker dispatch.
func (s *Service) Transcribe(ctx context.Context, path string, onResult func(text string, ok bool)) {
	s.mu.Lock()
	usable := s.ensureLoadedLocked()
	engine := s.engine
	s.mu.Unlock()

	if usable {
		if _, err := os.Stat(path); err != nil {
			s.logger.Error("Audio file not transcribable", "file", path, "error", err)
			usable = false
		}
	}
	if !usable {
		go onResult("", false)
		return
	}

	go func() {
		result, err := engine.TranscribeFile(ctx, path)
		if err != nil {
			s.logger.Error("Transcription failed", "file", path, "error", err)
			onResult("", false)
			return
		}

		s.logger.Info("Transcription finished", "language", result.Language,
			"elapsed", result.Elapsed, "chars", len(result.Text))
		onResult(result.Text, true)
	}()
}

// Unload releases the engine and clears the failure memo, so the next
// EnsureLoaded attempts a fresh load.
func (s *Service) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateLoaded {
		if err := s.engine.Close(); err != nil {
			s.logger.Warn("Failed to close transcription engine", "error", err)
		}
	}
	s.state = stateUnloaded
}
