// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Key-name normalization and combination parsing
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// keyAliases maps the many names the hook layer and users produce onto one
// canonical name per key. Left/right variants of a modifier collapse into the
// plain modifier, so "left alt+v" and "alt+v" describe the same combination.
var keyAliases = map[string]string{
	"left alt":      "alt",
	"right alt":     "alt",
	"lalt":          "alt",
	"ralt":          "alt",
	"alt gr":        "alt",
	"altgr":         "alt",
	"option":        "alt",
	"left ctrl":     "ctrl",
	"right ctrl":    "ctrl",
	"lctrl":         "ctrl",
	"rctrl":         "ctrl",
	"control":       "ctrl",
	"left control":  "ctrl",
	"right control": "ctrl",
	"left shift":    "shift",
	"right shift":   "shift",
	"lshift":        "shift",
	"rshift":        "shift",
	"left windows":  "super",
	"right windows": "super",
	"windows":       "super",
	"win":           "super",
	"cmd":           "super",
	"command":       "super",
	"left cmd":      "super",
	"right cmd":     "super",
	"meta":          "super",
	"return":        "enter",
	"escape":        "esc",
	"spacebar":      "space",
}

// NormalizeKey returns the canonical lowercase name for a key. Unknown names
// pass through lowercased and trimmed, so plain letter and digit keys need no
// alias entry.
func NormalizeKey(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// KeySet is a set of normalized key names that must be held simultaneously.
// It is immutable once a combination has been registered.
type KeySet map[string]struct{}

// ParseCombo parses a combination string like "ctrl+shift+r" into a KeySet.
// Parts are trimmed, normalized and deduplicated; an empty result is an error.
func ParseCombo(combo string) (KeySet, error) {
	keys := make(KeySet)
	for _, part := range strings.Split(combo, "+") {
		name := NormalizeKey(part)
		if name == "" {
			continue
		}
		keys[name] = struct{}{}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("combination %q contains no keys", combo)
	}
	return keys, nil
}

// SubsetOf reports whether every key in the set is present in pressed.
func (k KeySet) SubsetOf(pressed map[string]struct{}) bool {
	for key := range k {
		if _, ok := pressed[key]; !ok {
			return false
		}
	}
	return true
}

// String renders the set in stable order, for logs and the tray menu.
func (k KeySet) String() string {
	names := make([]string, 0, len(k))
	for key := range k {
		names = append(names, key)
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}
