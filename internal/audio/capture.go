// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     audio
// Description: Microphone capture using PortAudio
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"

	"github.com/msto63/wavetype/internal/logging"
)

const (
	// DefaultSampleRate is 16kHz, the rate Whisper models expect.
	DefaultSampleRate = 16000

	// DefaultChunkSize is the number of frames read per buffer.
	DefaultChunkSize = 1024

	// DefaultChannels is mono audio.
	DefaultChannels = 1
)

// Config holds capture parameters.
type Config struct {
	SampleRate int
	Channels   int
	ChunkSize  int
	DeviceName string // input device name (empty = system default)
}

// DefaultConfig returns the standard capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		ChunkSize:  DefaultChunkSize,
	}
}

// captureStream is the slice of the PortAudio stream API the recorder needs.
// Tests substitute a fake; production uses *portaudio.Stream directly.
type captureStream interface {
	Start() error
	Read() error
	Stop() error
	Close() error
}

// streamOpener opens a capture stream that fills buffer on each Read.
type streamOpener func(cfg Config, buffer []int16) (captureStream, error)

// Recorder captures microphone audio between Start and Stop calls and turns
// each take into a WAV artifact. All state is guarded by one lock; the reader
// goroutine appends frames only while the recording flag is set.
type Recorder struct {
	mu          sync.Mutex
	cfg         Config
	logger      *logging.Logger
	openStream  streamOpener
	stream      captureStream
	frames      [][]int16
	recording   bool
	sessionID   string
	startedAt   time.Time
	done        chan struct{}
	initialized bool
}

// NewRecorder initializes PortAudio and returns a recorder. Close must be
// called to release the audio host.
func NewRecorder(cfg Config) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &Recorder{
		cfg:         cfg,
		logger:      logging.New("audio"),
		openStream:  openPortAudioStream,
		initialized: true,
	}, nil
}

// newRecorderWithOpener is the test constructor; it skips PortAudio setup.
func newRecorderWithOpener(cfg Config, open streamOpener) *Recorder {
	return &Recorder{
		cfg:        cfg,
		logger:     logging.New("audio"),
		openStream: open,
	}
}

func openPortAudioStream(cfg Config, buffer []int16) (captureStream, error) {
	if cfg.DeviceName != "" && cfg.DeviceName != "default" {
		device, err := findInputDevice(cfg.DeviceName)
		if err == nil {
			params := portaudio.StreamParameters{
				Input: portaudio.StreamDeviceParameters{
					Device:   device,
					Channels: cfg.Channels,
					Latency:  device.DefaultLowInputLatency,
				},
				SampleRate:      float64(cfg.SampleRate),
				FramesPerBuffer: cfg.ChunkSize,
			}
			return portaudio.OpenStream(params, buffer)
		}
		// Device gone since configuration; fall back to the default input.
	}

	return portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), cfg.ChunkSize, buffer)
}

func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxInputChannels > 0 {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("input device not found: %s", name)
}

// Start opens the input stream and begins accumulating frames. Fails when a
// recording is already in progress or the device cannot be opened.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("recording already in progress")
	}

	buffer := make([]int16, r.cfg.ChunkSize*r.cfg.Channels)
	stream, err := r.openStream(r.cfg, buffer)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	r.stream = stream
	r.frames = nil
	r.recording = true
	r.sessionID = uuid.New().String()
	r.startedAt = time.Now()
	r.done = make(chan struct{})

	go r.readLoop(stream, buffer, r.done)

	r.logger.Info("Recording started", "session", r.sessionID,
		"sample_rate", r.cfg.SampleRate, "channels", r.cfg.Channels)
	return nil
}

// readLoop reads buffers from the stream and appends copies while its own
// session is still the current one. The done channel identifies the session:
// Stop replaces r.done before tearing the stream down, so a reader that was
// held up in Read cannot append a stale frame into a later take's buffer.
func (r *Recorder) readLoop(stream captureStream, buffer []int16, done chan struct{}) {
	defer close(done)

	for {
		if err := stream.Read(); err != nil {
			r.mu.Lock()
			current := r.recording && r.done == done
			r.mu.Unlock()
			if !current {
				return
			}
			// Transient overflow; keep reading.
			continue
		}

		frame := make([]int16, len(buffer))
		copy(frame, buffer)

		r.mu.Lock()
		if !r.recording || r.done != done {
			r.mu.Unlock()
			return
		}
		r.frames = append(r.frames, frame)
		r.mu.Unlock()
	}
}

// Stop ends the recording and writes the take to a temporary WAV file.
// Returns (nil, nil) when nothing was captured. The caller owns the returned
// artifact and must Release it after transcription.
func (r *Recorder) Stop() (*Artifact, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, fmt.Errorf("no recording in progress")
	}

	// Clear the flag first so the reader stops appending, then tear down the
	// stream outside the lock.
	r.recording = false
	stream := r.stream
	done := r.done
	frames := r.frames
	sessionID := r.sessionID
	duration := time.Since(r.startedAt)
	r.stream = nil
	r.frames = nil
	r.done = nil
	r.mu.Unlock()

	if err := stream.Stop(); err != nil {
		r.logger.Warn("Failed to stop audio stream", "error", err)
	}
	if err := stream.Close(); err != nil {
		r.logger.Warn("Failed to close audio stream", "error", err)
	}
	if done != nil {
		<-done
	}

	total := 0
	for _, frame := range frames {
		total += len(frame)
	}
	if total == 0 {
		r.logger.Warn("Recording produced no audio", "session", sessionID)
		return nil, nil
	}

	samples := make([]int16, 0, total)
	for _, frame := range frames {
		samples = append(samples, frame...)
	}

	f, err := os.CreateTemp("", "wavetype-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary WAV file: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := WriteWAV(path, samples, r.cfg.SampleRate, r.cfg.Channels); err != nil {
		os.Remove(path)
		return nil, err
	}

	r.logger.Info("Recording stopped", "session", sessionID,
		"duration", duration.Round(time.Millisecond), "samples", total, "file", path)

	return &Artifact{
		ID:         sessionID,
		Path:       path,
		SampleRate: r.cfg.SampleRate,
		Channels:   r.cfg.Channels,
		Duration:   duration,
		Samples:    samples,
	}, nil
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Close aborts any in-progress recording and releases the audio host. The
// aborted take is discarded, including its temporary file.
func (r *Recorder) Close() error {
	if r.IsRecording() {
		artifact, err := r.Stop()
		if err != nil {
			r.logger.Warn("Failed to stop recording during shutdown", "error", err)
		}
		if artifact != nil {
			artifact.Release()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		r.initialized = false
		if err := portaudio.Terminate(); err != nil {
			return fmt.Errorf("failed to terminate PortAudio: %w", err)
		}
	}
	return nil
}
