// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     session
// Description: Orchestration of one dictation from hotkey to inserted text
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/msto63/wavetype/internal/audio"
	"github.com/msto63/wavetype/internal/insert"
	"github.com/msto63/wavetype/internal/logging"
	"github.com/msto63/wavetype/internal/notify"
)

// Recorder is the slice of the audio recorder the orchestrator needs.
type Recorder interface {
	Start() error
	Stop() (*audio.Artifact, error)
	IsRecording() bool
	Close() error
}

// TranscriptionService turns a WAV file into text asynchronously.
type TranscriptionService interface {
	Transcribe(ctx context.Context, path string, onResult func(text string, ok bool))
	Unload()
}

// SilenceGate decides whether a take contains speech.
type SilenceGate interface {
	HasSpeech(samples []int16) (bool, error)
}

// Config holds orchestrator behavior settings.
type Config struct {
	// SkipSilence discards takes without detected speech before
	// transcription.
	SkipSilence bool
}

// Orchestrator drives one dictation at a time: hotkey press starts the
// recorder, release stops it and runs the take through the silence gate,
// transcription and text insertion. State transitions happen under one lock;
// all side effects run outside it on worker goroutines, so hotkey callbacks
// return immediately.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	closed    bool
	listeners []func(State)

	cfg      Config
	recorder Recorder
	stt      TranscriptionService
	gate     SilenceGate
	inserter insert.Inserter
	notifier notify.Notifier
	logger   *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an orchestrator. gate may be nil when silence skipping is off.
func New(cfg Config, recorder Recorder, stt TranscriptionService, gate SilenceGate,
	inserter insert.Inserter, notifier notify.Notifier) *Orchestrator {

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:      cfg,
		recorder: recorder,
		stt:      stt,
		gate:     gate,
		inserter: inserter,
		notifier: notifier,
		logger:   logging.New("session"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns the current session state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OnStateChange registers a listener invoked after every state transition.
// Listeners must not block; they run on the goroutine causing the transition.
func (o *Orchestrator) OnStateChange(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	if o.state == s {
		o.mu.Unlock()
		return
	}
	o.state = s
	listeners := make([]func(State), len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// HandleActivate starts a recording. Activations while a dictation is already
// in progress or after shutdown are ignored.
func (o *Orchestrator) HandleActivate() {
	o.mu.Lock()
	if o.closed || o.state != StateIdle {
		state := o.state
		o.mu.Unlock()
		o.logger.Debug("Ignoring activation", "state", state)
		return
	}
	o.state = StateRecording
	listeners := make([]func(State), len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(StateRecording)
	}

	if err := o.recorder.Start(); err != nil {
		o.logger.Error("Failed to start recording", "error", err)
		o.notifier.Error("waveType", "Aufnahme konnte nicht gestartet werden")
		o.setState(StateIdle)
	}
}

// HandleDeactivate stops the recording and processes the take on a worker
// goroutine. Deactivations outside the Recording state or after shutdown are
// ignored; Shutdown stops and discards a still-running take itself.
func (o *Orchestrator) HandleDeactivate() {
	o.mu.Lock()
	if o.closed || o.state != StateRecording {
		state := o.state
		o.mu.Unlock()
		o.logger.Debug("Ignoring deactivation", "state", state)
		return
	}
	o.state = StateStopping
	listeners := make([]func(State), len(o.listeners))
	copy(listeners, o.listeners)
	o.wg.Add(1)
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(StateStopping)
	}

	go o.finishTake()
}

// finishTake runs the stop pipeline: collect the take, gate it, transcribe
// it, insert the text. The artifact release and the return to Idle are
// deferred so every exit path cleans up.
func (o *Orchestrator) finishTake() {
	defer o.wg.Done()
	defer o.setState(StateIdle)

	started := time.Now()

	artifact, err := o.recorder.Stop()
	if err != nil {
		o.logger.Error("Failed to stop recording", "error", err)
		o.notifier.Error("waveType", "Aufnahme konnte nicht beendet werden")
		return
	}
	if artifact == nil {
		o.logger.Debug("Empty take, nothing to transcribe")
		return
	}
	defer artifact.Release()

	if o.cfg.SkipSilence && o.gate != nil {
		speech, err := o.gate.HasSpeech(artifact.Samples)
		if err != nil {
			o.logger.Warn("Silence detection failed, transcribing anyway", "error", err)
		} else if !speech {
			o.logger.Info("Take contains no speech, skipping", "session", artifact.ID,
				"duration", artifact.Duration.Round(time.Millisecond))
			return
		}
	}

	type outcome struct {
		text string
		ok   bool
	}
	results := make(chan outcome, 1)
	o.stt.Transcribe(o.ctx, artifact.Path, func(text string, ok bool) {
		results <- outcome{text: text, ok: ok}
	})

	var res outcome
	select {
	case res = <-results:
	case <-o.ctx.Done():
		o.logger.Debug("Shutdown while transcribing", "session", artifact.ID)
		return
	}

	if !res.ok {
		o.notifier.Error("waveType", "Transkription fehlgeschlagen")
		return
	}
	if strings.TrimSpace(res.text) == "" {
		o.logger.Info("Transcription empty, nothing to insert", "session", artifact.ID)
		return
	}

	if err := o.inserter.Insert(res.text); err != nil {
		o.logger.Error("Failed to insert text", "error", err)
		o.notifier.Error("waveType", "Text konnte nicht eingefügt werden")
		return
	}

	o.logger.Info("Dictation complete", "session", artifact.ID,
		"audio", artifact.Duration.Round(time.Millisecond),
		"latency", time.Since(started).Round(time.Millisecond),
		"chars", len(res.text))
}

// Shutdown aborts any in-flight dictation, waits for the pipeline to drain
// and releases the audio device and the transcription engine. Safe to call
// more than once.
func (o *Orchestrator) Shutdown() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	recording := o.state == StateRecording
	o.mu.Unlock()

	o.cancel()

	// A hotkey still held at shutdown leaves a recording with no pipeline;
	// stop it and discard the take.
	if recording {
		artifact, err := o.recorder.Stop()
		if err != nil {
			o.logger.Warn("Failed to stop recording during shutdown", "error", err)
		}
		if artifact != nil {
			artifact.Release()
		}
		o.setState(StateIdle)
	}

	o.wg.Wait()
	o.stt.Unload()

	if err := o.recorder.Close(); err != nil {
		return err
	}

	o.logger.Info("Session orchestrator shut down")
	return nil
}
