// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     tray
// Description: System tray using fyne.io/systray
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package tray

import (
	"fyne.io/systray"

	"github.com/msto63/wavetype/internal/session"
)

// Callbacks holds the functions the tray invokes on menu events.
type Callbacks struct {
	OnSettings func()
	OnQuit     func()
}

// App is the system tray surface: a state-colored icon plus a small menu
// showing the active hotkey and model.
type App struct {
	callbacks Callbacks

	menuStatus   *systray.MenuItem
	menuHotkey   *systray.MenuItem
	menuModel    *systray.MenuItem
	menuSettings *systray.MenuItem
	menuQuit     *systray.MenuItem

	hotkey string
	model  string
}

// New creates the tray app. hotkey and model are the initial menu texts.
func New(callbacks Callbacks, hotkey, model string) *App {
	return &App{
		callbacks: callbacks,
		hotkey:    hotkey,
		model:     model,
	}
}

// Run starts the tray event loop. Blocks until Quit is called.
func (a *App) Run() {
	systray.Run(a.onReady, a.onExit)
}

func (a *App) onReady() {
	systray.SetIcon(iconBytes(session.StateIdle))
	systray.SetTooltip("waveType Diktat")

	a.menuStatus = systray.AddMenuItem("Status: Bereit", "Aktueller Status")
	a.menuStatus.Disable()

	a.menuHotkey = systray.AddMenuItem("Hotkey: "+a.hotkey, "Aufnahme-Hotkey")
	a.menuHotkey.Disable()

	a.menuModel = systray.AddMenuItem("Modell: "+a.model, "Whisper-Modell")
	a.menuModel.Disable()

	systray.AddSeparator()

	a.menuSettings = systray.AddMenuItem("Einstellungen öffnen...", "Einstellungsdatei öffnen")

	systray.AddSeparator()

	a.menuQuit = systray.AddMenuItem("Beenden", "Anwendung beenden")

	go a.handleClicks()
}

func (a *App) handleClicks() {
	for {
		select {
		case <-a.menuSettings.ClickedCh:
			if a.callbacks.OnSettings != nil {
				a.callbacks.OnSettings()
			}
		case <-a.menuQuit.ClickedCh:
			if a.callbacks.OnQuit != nil {
				a.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

func (a *App) onExit() {}

// SetSessionState recolors the icon and updates the status line.
func (a *App) SetSessionState(state session.State) {
	systray.SetIcon(iconBytes(state))
	if a.menuStatus == nil {
		return
	}
	switch state {
	case session.StateRecording:
		a.menuStatus.SetTitle("Status: Aufnahme läuft")
	case session.StateStopping:
		a.menuStatus.SetTitle("Status: Transkribiere...")
	default:
		a.menuStatus.SetTitle("Status: Bereit")
	}
}

// SetHotkey updates the hotkey shown in the menu after a rebind.
func (a *App) SetHotkey(combo string) {
	a.hotkey = combo
	if a.menuHotkey != nil {
		a.menuHotkey.SetTitle("Hotkey: " + combo)
	}
}

// SetModel updates the model shown in the menu.
func (a *App) SetModel(model string) {
	a.model = model
	if a.menuModel != nil {
		a.menuModel.SetTitle("Modell: " + model)
	}
}

// Quit ends the tray event loop.
func (a *App) Quit() {
	systray.Quit()
}
