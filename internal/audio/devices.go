// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     audio
// Description: Input device enumeration
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes one audio input device.
type Device struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListInputDevices enumerates all devices with input channels. It manages its
// own PortAudio lifecycle so the CLI can call it without a Recorder.
func ListInputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	defaultInput, _ := portaudio.DefaultInputDevice()

	var inputs []Device
	for _, dev := range devices {
		if dev.MaxInputChannels == 0 {
			continue
		}
		inputs = append(inputs, Device{
			Name:              dev.Name,
			MaxInputChannels:  dev.MaxInputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			IsDefault:         defaultInput != nil && dev.Name == defaultInput.Name,
		})
	}
	return inputs, nil
}
