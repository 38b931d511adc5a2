// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     stt
// Description: Whisper engine using the whisper.cpp CLI
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// WhisperCLI implements speech-to-text by shelling out to whisper.cpp.
type WhisperCLI struct {
	cfg        Config
	binaryPath string
	modelPath  string
}

// NewWhisperCLI creates a Whisper CLI transcriber. Binary and model are
// resolved lazily in Load so construction never touches the filesystem.
func NewWhisperCLI(cfg Config) *WhisperCLI {
	return &WhisperCLI{cfg: cfg}
}

// Load locates the whisper binary and the model file. An error here leaves
// the engine unusable until the next Load.
func (w *WhisperCLI) Load() error {
	binaryPath := w.cfg.BinaryPath
	if binaryPath == "" {
		binaryPath = findWhisperBinary()
	}
	if binaryPath == "" {
		return fmt.Errorf("whisper binary not found")
	}
	if _, err := os.Stat(binaryPath); err != nil {
		return fmt.Errorf("whisper binary not usable: %w", err)
	}

	modelPath := w.cfg.ModelPath
	if modelPath == "" {
		modelPath = defaultModelPath(w.cfg.Model)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return fmt.Errorf("whisper model %q not found at %s: %w", w.cfg.Model, modelPath, err)
	}

	w.binaryPath = binaryPath
	w.modelPath = modelPath
	return nil
}

// findWhisperBinary looks for whisper-cli (the current whisper.cpp name)
// before the older whisper name, on PATH and in common install locations.
func findWhisperBinary() string {
	if path, err := exec.LookPath("whisper-cli"); err == nil {
		return path
	}
	if path, err := exec.LookPath("whisper"); err == nil {
		return path
	}

	locations := []string{
		"/opt/homebrew/bin/whisper-cli",
		"/opt/homebrew/bin/whisper",
		"/usr/local/bin/whisper-cli",
		"/usr/local/bin/whisper",
		"/usr/bin/whisper-cli",
		"/usr/bin/whisper",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// defaultModelPath resolves a model size name to the ggml file in the user's
// model cache.
func defaultModelPath(model string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache", "wavetype", "models", fmt.Sprintf("ggml-%s.bin", model))
}

// TranscribeFile runs the whisper binary on the given WAV file.
func (w *WhisperCLI) TranscribeFile(ctx context.Context, path string) (Result, error) {
	if w.binaryPath == "" || w.modelPath == "" {
		return Result{}, fmt.Errorf("whisper engine not loaded")
	}

	args := []string{
		"-m", w.modelPath,
		"-l", w.cfg.Language,
		"-np",
	}
	if w.cfg.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(w.cfg.BeamSize))
	}
	args = append(args, path)

	start := time.Now()
	cmd := exec.CommandContext(ctx, w.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("whisper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return Result{
		Text:     stripTimestamps(stdout.String()),
		Language: w.cfg.Language,
		Elapsed:  time.Since(start),
	}, nil
}

// stripTimestamps removes whisper's "[00:00:00.000 --> 00:00:05.000]" line
// prefixes and joins the segments into one line of text.
func stripTimestamps(raw string) string {
	var cleaned []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.Contains(line, "-->") {
			if idx := strings.Index(line, "]"); idx != -1 {
				line = strings.TrimSpace(line[idx+1:])
			}
		}
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, " ")
}

// Close releases resources. The CLI engine holds none between calls.
func (w *WhisperCLI) Close() error {
	w.binaryPath = ""
	w.modelPath = ""
	return nil
}
