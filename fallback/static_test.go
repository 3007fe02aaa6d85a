// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package fallback

import (
	"testing"

	"github.com/glowstack/herofx"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	if _, err := New(0, 64); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New(64, -5); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestRenderIsDeterministicForSeed(t *testing.T) {
	a, err := New(80, 60, WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(80, 60, WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}

	da := a.Render(2.5).Data()
	db := b.Render(2.5).Data()
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("frames diverge at byte %d", i)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, _ := New(80, 60, WithSeed(1))
	b, _ := New(80, 60, WithSeed(2))

	da := a.Render(0).Data()
	db := b.Render(0).Data()
	same := true
	for i := range da {
		if da[i] != db[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical frames")
	}
}

func TestPulseIsSubtle(t *testing.T) {
	s, err := New(64, 64, WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}

	early := sum(s.Render(0))
	late := sum(s.Render(3))
	if early == 0 {
		t.Fatal("frame is empty")
	}

	// The pulse modulates dot alpha by at most ~±15%; whole-frame
	// luminance should move far less than that.
	diff := early - late
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) > float64(early)*0.1 {
		t.Errorf("pulse moved frame luminance by %d of %d, too strong for a static placeholder", diff, early)
	}
}

func TestDotCountOption(t *testing.T) {
	s, err := New(64, 64, WithDotCount(5))
	if err != nil {
		t.Fatal(err)
	}
	if s.DotCount() != 5 {
		t.Errorf("DotCount = %d, want 5", s.DotCount())
	}

	none, err := New(64, 64, WithDotCount(0))
	if err != nil {
		t.Fatal(err)
	}
	if none.DotCount() != 0 {
		t.Errorf("DotCount = %d, want 0", none.DotCount())
	}
}

func TestBackdropHasCenterGlow(t *testing.T) {
	s, err := New(100, 100, WithDotCount(0), WithBackground(herofx.RGB(0, 0, 0)))
	if err != nil {
		t.Fatal(err)
	}

	center := s.backdrop.GetPixel(50, 42)
	corner := s.backdrop.GetPixel(0, 99)
	if center.R+center.G+center.B <= corner.R+corner.G+corner.B {
		t.Error("backdrop glow should be brighter at the center than at the corner")
	}
}

func sum(p *herofx.Pixmap) int {
	total := 0
	for _, v := range p.Data() {
		total += int(v)
	}
	return total
}
