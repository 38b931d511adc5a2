// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     insert
// Description: Tests for text preparation
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package insert

import "testing"

func TestPrepareText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		addSpace bool
		want     string
	}{
		{"plain with space", "hello world", true, "hello world "},
		{"plain without space", "hello world", false, "hello world"},
		{"surrounding whitespace trimmed", "  hello \n", true, "hello "},
		{"empty", "", true, ""},
		{"whitespace only", "   \n\t", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prepareText(tt.in, tt.addSpace); got != tt.want {
				t.Errorf("prepareText(%q, %v) = %q, want %q", tt.in, tt.addSpace, got, tt.want)
			}
		})
	}
}
