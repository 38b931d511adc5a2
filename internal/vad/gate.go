// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     vad
// Description: WebRTC VAD based silence gate for finished takes
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package vad

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

// Config holds silence gate parameters.
type Config struct {
	// SampleRate must be 8000, 16000, 32000 or 48000.
	SampleRate int

	// Mode is the WebRTC aggressiveness (0-3, higher filters more).
	Mode int
}

// DefaultConfig returns the standard gate configuration for 16kHz takes.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Mode:       2,
	}
}

// frameClassifier decides whether one 10ms frame contains speech.
type frameClassifier interface {
	Process(sampleRate int, frame []byte) (bool, error)
}

// Gate checks a finished recording for voice activity so silent takes can be
// discarded before they reach the transcription engine.
type Gate struct {
	classifier frameClassifier
	sampleRate int
	mode       int
}

// NewGate creates a gate backed by the WebRTC voice activity detector.
func NewGate(cfg Config) (*Gate, error) {
	switch cfg.SampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("invalid VAD sample rate %d", cfg.SampleRate)
	}

	mode := cfg.Mode
	if mode < 0 {
		mode = 0
	}
	if mode > 3 {
		mode = 3
	}

	detector, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create WebRTC VAD: %w", err)
	}
	if err := detector.SetMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set VAD mode: %w", err)
	}

	return &Gate{
		classifier: detector,
		sampleRate: cfg.SampleRate,
		mode:       mode,
	}, nil
}

// HasSpeech reports whether any 10ms frame of the take contains speech.
// Takes shorter than one frame count as silent.
func (g *Gate) HasSpeech(samples []int16) (bool, error) {
	frameSize := g.sampleRate / 100

	for i := 0; i+frameSize <= len(samples); i += frameSize {
		frame := int16ToBytes(samples[i : i+frameSize])

		active, err := g.classifier.Process(g.sampleRate, frame)
		if err != nil {
			return false, fmt.Errorf("VAD processing failed: %w", err)
		}
		if active {
			return true, nil
		}
	}
	return false, nil
}

// Mode returns the configured aggressiveness.
func (g *Gate) Mode() int {
	return g.mode
}

// int16ToBytes converts samples to little-endian bytes as the VAD expects.
func int16ToBytes(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		bytes[i*2] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	return bytes
}
