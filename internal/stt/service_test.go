// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     stt
// Description: Tests for the transcription service
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

// fakeEngine counts Load attempts and returns scripted results.
type fakeEngine struct {
	mu              sync.Mutex
	loadErr         error
	loadCalls       int
	transcribeErr   error
	transcribeCalls int
	text            string
	closed          bool
}

func (f *fakeEngine) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	return f.loadErr
}

func (f *fakeEngine) TranscribeFile(ctx context.Context, path string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcribeCalls++
	if f.transcribeErr != nil {
		return Result{}, f.transcribeErr
	}
	return Result{Text: f.text, Language: "en"}, nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadCalls
}

type resultCapture struct {
	text string
	ok   bool
}

// tempWAV creates an empty file standing in for a recorded take.
func tempWAV(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "take-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	path := f.Name()
	f.Close()
	return path
}

func transcribeAndWait(t *testing.T, service *Service, path string) resultCapture {
	t.Helper()

	results := make(chan resultCapture, 4)
	service.Transcribe(context.Background(), path, func(text string, ok bool) {
		results <- resultCapture{text: text, ok: ok}
	})

	select {
	case r := <-results:
		// onResult fires exactly once.
		select {
		case extra := <-results:
			t.Fatalf("onResult called again with %+v", extra)
		case <-time.After(50 * time.Millisecond):
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transcription result")
		return resultCapture{}
	}
}

func TestServiceLoadsOnce(t *testing.T) {
	engine := &fakeEngine{text: "hello world"}
	service := NewService(engine)

	if !service.EnsureLoaded() {
		t.Fatal("EnsureLoaded() = false, want true")
	}
	if !service.EnsureLoaded() {
		t.Fatal("second EnsureLoaded() = false, want true")
	}
	if got := engine.loads(); got != 1 {
		t.Errorf("Load() called %d times, want 1", got)
	}
}

func TestServiceRemembersFailedLoad(t *testing.T) {
	engine := &fakeEngine{loadErr: errors.New("model missing")}
	service := NewService(engine)

	if service.EnsureLoaded() {
		t.Fatal("EnsureLoaded() = true for a failing engine, want false")
	}
	if service.EnsureLoaded() {
		t.Fatal("second EnsureLoaded() = true, want false")
	}
	if got := engine.loads(); got != 1 {
		t.Errorf("Load() called %d times after failure, want 1", got)
	}

	// Unload clears the memo so the next check retries.
	engine.mu.Lock()
	engine.loadErr = nil
	engine.mu.Unlock()
	service.Unload()

	if !service.EnsureLoaded() {
		t.Fatal("EnsureLoaded() after Unload() = false, want true")
	}
	if got := engine.loads(); got != 2 {
		t.Errorf("Load() called %d times after retry, want 2", got)
	}
}

func TestServiceTranscribeSuccess(t *testing.T) {
	engine := &fakeEngine{text: "hello world"}
	service := NewService(engine)

	r := transcribeAndWait(t, service, tempWAV(t))
	if !r.ok {
		t.Fatal("onResult ok = false, want true")
	}
	if r.text != "hello world" {
		t.Errorf("onResult text = %q, want %q", r.text, "hello world")
	}
}

func TestServiceTranscribeEngineError(t *testing.T) {
	engine := &fakeEngine{transcribeErr: errors.New("decode failed")}
	service := NewService(engine)

	r := transcribeAndWait(t, service, tempWAV(t))
	if r.ok {
		t.Error("onResult ok = true for a failing engine, want false")
	}
	if r.text != "" {
		t.Errorf("onResult text = %q, want empty", r.text)
	}
}

func TestServiceTranscribeUnloadable(t *testing.T) {
	engine := &fakeEngine{loadErr: errors.New("model missing")}
	service := NewService(engine)

	r := transcribeAndWait(t, service, "take.wav")
	if r.ok {
		t.Error("onResult ok = true without a loaded engine, want false")
	}
}

func TestServiceTranscribeMissingFile(t *testing.T) {
	engine := &fakeEngine{text: "hello"}
	service := NewService(engine)

	r := transcribeAndWait(t, service, "/nonexistent/take.wav")
	if r.ok {
		t.Error("onResult ok = true for a missing file, want false")
	}

	// The engine is never invoked when the file check fails up front.
	engine.mu.Lock()
	calls := engine.transcribeCalls
	engine.mu.Unlock()
	if calls != 0 {
		t.Errorf("TranscribeFile called %d times for a missing file, want 0", calls)
	}
}

func TestServiceUnloadClosesEngine(t *testing.T) {
	engine := &fakeEngine{text: "x"}
	service := NewService(engine)

	if !service.EnsureLoaded() {
		t.Fatal("EnsureLoaded() = false, want true")
	}
	service.Unload()

	engine.mu.Lock()
	closed := engine.closed
	engine.mu.Unlock()
	if !closed {
		t.Error("Unload() did not close the loaded engine")
	}
}

func TestStripTimestamps(t *testing.T) {
	raw := "[00:00:00.000 --> 00:00:02.500]  Hello there.\n[00:00:02.500 --> 00:00:04.000]  General greeting.\n"
	want := "Hello there. General greeting."
	if got := stripTimestamps(raw); got != want {
		t.Errorf("stripTimestamps() = %q, want %q", got, want)
	}

	// Plain output passes through.
	if got := stripTimestamps("  just text  \n"); got != "just text" {
		t.Errorf("stripTimestamps() = %q, want %q", got, "just text")
	}
}
