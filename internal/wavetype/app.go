// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     wavetype
// Description: Application wiring and lifecycle
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package wavetype

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/msto63/wavetype/internal/audio"
	"github.com/msto63/wavetype/internal/hotkey"
	"github.com/msto63/wavetype/internal/insert"
	"github.com/msto63/wavetype/internal/logging"
	"github.com/msto63/wavetype/internal/notify"
	"github.com/msto63/wavetype/internal/session"
	"github.com/msto63/wavetype/internal/settings"
	"github.com/msto63/wavetype/internal/stt"
	"github.com/msto63/wavetype/internal/tray"
	"github.com/msto63/wavetype/internal/vad"
)

// recordHotkeyID is the engine id of the push-to-talk combination.
const recordHotkeyID = "record"

// App assembles settings, hotkey engine, recorder, transcription and tray
// into the running application.
type App struct {
	store        *settings.Store
	engine       *hotkey.Engine
	systemTap    *hotkey.SystemTap
	recorder     *audio.Recorder
	sttService   *stt.Service
	orchestrator *session.Orchestrator
	trayApp      *tray.App
	watcher      *settings.Watcher
	notifier     notify.Notifier
	logger       *logging.Logger

	mu           sync.Mutex
	combo        string
	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds the application from the settings file at path. An empty path
// uses the default location, creating the file with defaults if missing.
func New(path string) (*App, error) {
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings path: %w", err)
		}
	}

	store, err := settings.Open(path)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:  store.GetString("log.level", "info"),
		Format: store.GetString("log.format", "console"),
	}
	if store.GetBool("advanced.debug", false) {
		logCfg.Level = "debug"
	}
	logging.Setup(logCfg)

	app := &App{
		store:  store,
		logger: logging.New("app"),
	}

	if store.GetBool("ui.notifications", true) {
		app.notifier = notify.NewDesktop()
	} else {
		app.notifier = notify.Nop{}
	}

	audioCfg := audio.Config{
		SampleRate: store.GetInt("audio.sample_rate", audio.DefaultSampleRate),
		Channels:   store.GetInt("audio.channels", audio.DefaultChannels),
		ChunkSize:  store.GetInt("audio.chunk_size", audio.DefaultChunkSize),
		DeviceName: store.GetString("audio.device", ""),
	}
	app.recorder, err = audio.NewRecorder(audioCfg)
	if err != nil {
		return nil, err
	}

	sttCfg := stt.Config{
		Model:       store.GetString("transcription.model", "small"),
		ModelPath:   store.GetString("transcription.model_path", ""),
		Language:    store.GetString("transcription.language", "en"),
		Device:      store.GetString("transcription.device", "cpu"),
		ComputeType: store.GetString("transcription.compute_type", "int8"),
		BeamSize:    store.GetInt("transcription.beam_size", 5),
	}
	app.sttService = stt.NewService(stt.NewWhisperCLI(sttCfg))

	var gate session.SilenceGate
	skipSilence := store.GetBool("audio.skip_silence", false)
	if skipSilence {
		g, err := vad.NewGate(vad.Config{SampleRate: audioCfg.SampleRate, Mode: 2})
		if err != nil {
			app.logger.Warn("Silence detection unavailable", "error", err)
		} else {
			gate = g
		}
	}

	delay := store.GetFloat("advanced.insertion_delay", 0.1)
	inserter, err := insert.NewClipboardInserter(insert.Options{
		Delay:         time.Duration(delay * float64(time.Second)),
		AddSpaceAfter: store.GetBool("text_insertion.add_space_after", true),
	})
	if err != nil {
		return nil, err
	}

	app.orchestrator = session.New(
		session.Config{SkipSilence: skipSilence},
		app.recorder, app.sttService, gate, inserter, app.notifier,
	)

	app.combo = store.GetString("hotkey.record", "alt+v")
	var tap hotkey.EventTap
	if store.GetString("hotkey.backend", "hook") == "system" {
		app.systemTap = hotkey.NewSystemTap(app.combo)
		tap = app.systemTap
	} else {
		tap = hotkey.NewHookTap()
	}
	app.engine = hotkey.New(tap)

	if err := app.engine.Register(recordHotkeyID, app.combo,
		app.orchestrator.HandleActivate, app.orchestrator.HandleDeactivate); err != nil {
		return nil, err
	}

	app.trayApp = tray.New(tray.Callbacks{
		OnSettings: app.openSettings,
		OnQuit:     func() { app.Shutdown() },
	}, app.combo, sttCfg.Model)

	app.orchestrator.OnStateChange(app.trayApp.SetSessionState)

	app.watcher = settings.NewWatcher(store, app.applySettings)

	return app, nil
}

// Run starts the hotkey engine and the settings watcher, then blocks in the
// tray event loop until the app quits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.engine.Start(); err != nil {
		return err
	}
	if err := a.watcher.Start(ctx); err != nil {
		a.logger.Warn("Settings watch unavailable", "error", err)
	}

	go func() {
		<-ctx.Done()
		a.trayApp.Quit()
	}()

	a.logger.Info("waveType ready", "hotkey", a.combo, "settings", a.store.FilePath())
	a.trayApp.Run()

	return a.Shutdown()
}

// UpdateRecordHotkey rebinds the push-to-talk combination at runtime. An
// invalid combination leaves the previous binding in effect.
func (a *App) UpdateRecordHotkey(combo string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if combo == a.combo {
		return nil
	}
	if err := a.engine.Rebind(recordHotkeyID, combo); err != nil {
		return err
	}
	if a.systemTap != nil {
		if err := a.systemTap.Retarget(combo); err != nil {
			// Keep engine and tap consistent.
			a.engine.Rebind(recordHotkeyID, a.combo)
			return err
		}
	}

	a.combo = combo
	a.trayApp.SetHotkey(combo)
	a.logger.Info("Record hotkey updated", "combo", combo)
	return nil
}

// applySettings reacts to a reloaded settings file. Only the hotkey is
// applied live; other changes take effect on restart.
func (a *App) applySettings() {
	combo := a.store.GetString("hotkey.record", "alt+v")
	if err := a.UpdateRecordHotkey(combo); err != nil {
		a.logger.Warn("Ignoring invalid hotkey from settings", "combo", combo, "error", err)
		a.notifier.Error("waveType", "Ungültiger Hotkey in den Einstellungen")
	}
}

// openSettings opens the settings file with the platform default editor.
func (a *App) openSettings() {
	path := a.store.FilePath()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		a.logger.Warn("Failed to open settings file", "path", path, "error", err)
	}
}

// Shutdown stops the hotkey engine and drains the session pipeline. Safe to
// call more than once.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("Shutting down")
		if err := a.engine.Stop(); err != nil {
			a.logger.Debug("Hotkey engine stop", "error", err)
		}
		a.shutdownErr = a.orchestrator.Shutdown()
	})
	return a.shutdownErr
}
