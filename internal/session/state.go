// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     session
// Description: Dictation session states
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package session

// State is the orchestrator's lifecycle state. A dictation moves Idle ->
// Recording while the hotkey is held, then Recording -> Stopping while the
// take is transcribed and inserted, then back to Idle.
type State int

const (
	// StateIdle means no dictation is in progress.
	StateIdle State = iota

	// StateRecording means the microphone is capturing.
	StateRecording

	// StateStopping means the take is being transcribed and inserted.
	StateStopping
)

// String returns the state name for logs and the tray.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
