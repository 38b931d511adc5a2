// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     settings
// Description: Persistent application settings with dotted-key access
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format represents the settings file format.
type Format int

const (
	// FormatTOML is the default on-disk format.
	FormatTOML Format = iota

	// FormatYAML is accepted for .yaml/.yml files.
	FormatYAML
)

// Defaults returns the default settings tree. Every key the application reads
// has a default here, so a missing or partial settings file never breaks startup.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"hotkey": map[string]interface{}{
			"record":  "alt+v",
			"backend": "hook",
		},
		"audio": map[string]interface{}{
			"sample_rate":  16000,
			"channels":     1,
			"chunk_size":   1024,
			"skip_silence": false,
		},
		"transcription": map[string]interface{}{
			"model":        "small",
			"language":     "en",
			"beam_size":    5,
			"device":       "cpu",
			"compute_type": "int8",
		},
		"text_insertion": map[string]interface{}{
			"add_space_after": true,
		},
		"advanced": map[string]interface{}{
			"insertion_delay": 0.1,
			"debug":           false,
		},
		"ui": map[string]interface{}{
			"notifications": true,
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "console",
		},
	}
}

// DefaultPath returns the settings file location (~/.config/wavetype/settings.toml).
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "wavetype", "settings.toml"), nil
}

// Store is a thread-safe settings store. Keys use dot notation
// ("audio.sample_rate"); values loaded from disk are merged over defaults.
type Store struct {
	mu       sync.RWMutex
	data     map[string]interface{}
	filePath string
	format   Format
}

// Open loads the settings file at path, creating it with defaults if it does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		data:     Defaults(),
		filePath: path,
		format:   detectFormat(path),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to write initial settings: %w", err)
		}
		return s, nil
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load re-reads the settings file and merges it over the defaults.
func (s *Store) Load() error {
	content, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", s.filePath, err)
	}

	loaded := make(map[string]interface{})
	switch s.format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &loaded); err != nil {
			return fmt.Errorf("failed to parse settings file %s: %w", s.filePath, err)
		}
	default:
		if err := toml.Unmarshal(content, &loaded); err != nil {
			return fmt.Errorf("failed to parse settings file %s: %w", s.filePath, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = mergeMaps(Defaults(), loaded)
	return nil
}

// Save writes the current settings tree to disk, creating the parent
// directory if needed.
func (s *Store) Save() error {
	s.mu.RLock()
	data := deepCopyMap(s.data)
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	var content []byte
	switch s.format {
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		content = out
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		content = buf.Bytes()
	}

	if err := os.WriteFile(s.filePath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.filePath, err)
	}
	return nil
}

// FilePath returns the backing file path.
func (s *Store) FilePath() string {
	return s.filePath
}

// Get returns the raw value at the dotted key, or nil if absent.
func (s *Store) Get(key string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value interface{} = s.data
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		value, ok = m[part]
		if !ok {
			return nil
		}
	}
	return value
}

// Has reports whether the dotted key exists.
func (s *Store) Has(key string) bool {
	return s.Get(key) != nil
}

// GetString returns the string at key, or defaultValue when absent or of the
// wrong type.
func (s *Store) GetString(key, defaultValue string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return defaultValue
}

// GetInt returns the integer at key, accepting the numeric types the TOML and
// YAML decoders produce.
func (s *Store) GetInt(key string, defaultValue int) int {
	switch v := s.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// GetFloat returns the float at key.
func (s *Store) GetFloat(key string, defaultValue float64) float64 {
	switch v := s.Get(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultValue
	}
}

// GetBool returns the boolean at key.
func (s *Store) GetBool(key string, defaultValue bool) bool {
	if v, ok := s.Get(key).(bool); ok {
		return v
	}
	return defaultValue
}

// Set stores value at the dotted key, creating intermediate maps as needed.
// The change is in-memory until Save is called.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	target := s.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := target[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			target[part] = next
		}
		target = next
	}
	target[parts[len(parts)-1]] = value
}

// mergeMaps overlays src onto dst recursively and returns dst.
func mergeMaps(dst, src map[string]interface{}) map[string]interface{} {
	for key, value := range src {
		srcMap, srcIsMap := normalizeMap(value)
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			dst[key] = mergeMaps(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			dst[key] = srcMap
			continue
		}
		dst[key] = value
	}
	return dst
}

// normalizeMap converts the map types the YAML decoder may produce into
// map[string]interface{}.
func normalizeMap(value interface{}) (map[string]interface{}, bool) {
	switch m := value.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[fmt.Sprintf("%v", k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for key, value := range src {
		if m, ok := value.(map[string]interface{}); ok {
			dst[key] = deepCopyMap(m)
			continue
		}
		dst[key] = value
	}
	return dst
}
