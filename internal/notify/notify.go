// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     notify
// Description: Desktop notifications
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/msto63/wavetype/internal/logging"
)

// Notifier delivers short status messages to the user.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

// Desktop sends notifications through the platform notification service.
type Desktop struct {
	logger *logging.Logger
}

// NewDesktop creates a desktop notifier.
func NewDesktop() *Desktop {
	return &Desktop{logger: logging.New("notify")}
}

// Info shows an informational notification.
func (d *Desktop) Info(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		d.logger.Warn("Failed to show notification", "title", title, "error", err)
	}
}

// Error shows an error notification with the alert sound.
func (d *Desktop) Error(title, message string) {
	if err := beeep.Alert(title, message, ""); err != nil {
		d.logger.Warn("Failed to show alert", "title", title, "error", err)
	}
}

// Nop discards all notifications, used when ui.notifications is disabled.
type Nop struct{}

func (Nop) Info(title, message string)  {}
func (Nop) Error(title, message string) {}
