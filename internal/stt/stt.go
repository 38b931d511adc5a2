// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     stt
// Description: Speech-to-Text interface and configuration
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"time"
)

// Transcriber is the interface for speech-to-text engines.
type Transcriber interface {
	// Load prepares the engine (binary and model checks, warm-up).
	Load() error

	// TranscribeFile transcribes audio from a WAV file.
	TranscribeFile(ctx context.Context, path string) (Result, error)

	// Close releases resources.
	Close() error
}

// Result holds the transcription result.
type Result struct {
	// Text is the transcribed text.
	Text string

	// Language is the language used or detected.
	Language string

	// Elapsed is the transcription wall time.
	Elapsed time.Duration
}

// Config holds STT configuration.
type Config struct {
	// Model is the Whisper model size (tiny, base, small, medium, large).
	Model string

	// ModelPath overrides the model file resolved from Model.
	ModelPath string

	// Language is the target language code, or "auto" for detection.
	Language string

	// Device selects the compute device (cpu, cuda).
	Device string

	// ComputeType selects the quantization (int8, float16, float32).
	ComputeType string

	// BeamSize is the decoder beam width.
	BeamSize int

	// BinaryPath overrides whisper binary discovery.
	BinaryPath string
}

// DefaultConfig returns default STT configuration.
func DefaultConfig() Config {
	return Config{
		Model:       "small",
		Language:    "en",
		Device:      "cpu",
		ComputeType: "int8",
		BeamSize:    5,
	}
}
