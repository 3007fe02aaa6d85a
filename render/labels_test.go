// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
)

func TestNewLabelPainterRejectsGarbage(t *testing.T) {
	if _, err := newLabelPainter([]byte{0x00, 0x01, 0x02}, 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestBaseDirection(t *testing.T) {
	tests := []struct {
		text string
		want di.Direction
	}{
		{"hello", di.DirectionLTR},
		{"", di.DirectionLTR},
		{"שלום", di.DirectionRTL},
		{"مرحبا", di.DirectionRTL},
		{"123", di.DirectionLTR},
	}
	for _, tt := range tests {
		if got := baseDirection(tt.text); got != tt.want {
			t.Errorf("baseDirection(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		text string
		want language.Script
	}{
		{"hello", language.LookupScript('h')},
		{"  world", language.LookupScript('w')},
		{"", language.Latin},
		{"   ", language.Latin},
	}
	for _, tt := range tests {
		if got := detectScript([]rune(tt.text)); got != tt.want {
			t.Errorf("detectScript(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
