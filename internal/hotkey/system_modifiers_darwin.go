// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: macOS modifier mapping for the system hotkey backend
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

var systemModifiers = map[string]xhotkey.Modifier{
	"ctrl":  xhotkey.ModCtrl,
	"shift": xhotkey.ModShift,
	"alt":   xhotkey.ModOption,
	"super": xhotkey.ModCmd,
}
