// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fallback renders the static hero placeholder.
//
// The static frame stands in for the animated scene wherever the full
// renderer cannot or should not run: no usable GPU adapter, reduced motion,
// or the window before the mount delay elapses. It is designed to look like
// a quiet version of the real scene so the swap is not jarring: a radial
// glow backdrop, a seeded scatter of soft dots, and a small fixed
// constellation. The only animation is a slow brightness pulse on the dots.
package fallback

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/glowstack/herofx"
)

const (
	// defaultDotCount is the number of scatter dots in the placeholder.
	defaultDotCount = 80

	// pulseRate is the dot brightness pulse in radians per second. Slow on
	// purpose: the placeholder must read as static at a glance.
	pulseRate = 0.5
)

// miniNodes are the fixed constellation node positions, normalized to the
// frame (x, y in [0, 1]).
var miniNodes = [][2]float64{
	{0.50, 0.42},
	{0.36, 0.30},
	{0.65, 0.28},
	{0.30, 0.55},
	{0.68, 0.58},
}

// miniEdges connects miniNodes by index.
var miniEdges = [][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2},
}

// Option configures a Static renderer.
type Option func(*Static)

// WithSeed fixes the dot scatter seed.
func WithSeed(seed int64) Option {
	return func(s *Static) { s.seed = seed }
}

// WithDotCount overrides the number of scatter dots.
func WithDotCount(n int) Option {
	return func(s *Static) {
		if n >= 0 {
			s.dotCount = n
		}
	}
}

// WithBackground sets the clear color.
func WithBackground(c herofx.RGBA) Option {
	return func(s *Static) { s.background = c }
}

// WithAccent sets the glow and constellation color.
func WithAccent(c herofx.RGBA) Option {
	return func(s *Static) { s.accent = c }
}

type dot struct {
	x, y   float64
	radius float64
	phase  float64
	color  herofx.RGBA
}

// Static renders the placeholder frame. The backdrop (background plus radial
// glow) is computed once at construction; Render only composites dots and the
// constellation on top, so per-frame cost stays negligible.
type Static struct {
	width, height int
	target        *herofx.Pixmap
	backdrop      *herofx.Pixmap

	seed       int64
	dotCount   int
	background herofx.RGBA
	accent     herofx.RGBA

	dots []dot
}

// New creates a Static renderer for the given frame size.
func New(width, height int, opts ...Option) (*Static, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("fallback: invalid frame size %dx%d", width, height)
	}
	s := &Static{
		width:      width,
		height:     height,
		target:     herofx.NewPixmap(width, height),
		seed:       1,
		dotCount:   defaultDotCount,
		background: herofx.Hex("#0b1020"),
		accent:     herofx.Hex("#7dd3fc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.buildBackdrop()
	s.scatterDots()
	return s, nil
}

// Size returns the frame dimensions.
func (s *Static) Size() (int, int) { return s.width, s.height }

// DotCount returns the number of scatter dots.
func (s *Static) DotCount() int { return len(s.dots) }

// buildBackdrop paints the background and a radial glow centered slightly
// above the frame center.
func (s *Static) buildBackdrop() {
	s.backdrop = herofx.NewPixmap(s.width, s.height)

	cx := float64(s.width) / 2
	cy := float64(s.height) * 0.42
	maxR := math.Hypot(float64(s.width), float64(s.height)) / 2

	glow := s.accent.Scale(0.16)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxR
			if d > 1 {
				d = 1
			}
			t := (1 - d) * (1 - d)
			s.backdrop.SetPixel(x, y, s.background.Lerp(glow, t))
		}
	}
}

// scatterDots places the seeded dot field. The same seed always yields the
// same placeholder.
func (s *Static) scatterDots() {
	rng := rand.New(rand.NewSource(s.seed))
	s.dots = make([]dot, s.dotCount)
	for i := range s.dots {
		s.dots[i] = dot{
			x:      rng.Float64() * float64(s.width),
			y:      rng.Float64() * float64(s.height),
			radius: 0.8 + rng.Float64()*1.6,
			phase:  rng.Float64() * 2 * math.Pi,
			color:  s.accent.Lerp(herofx.RGB(1, 1, 1), rng.Float64()*0.5),
		}
	}
}

// Render draws the placeholder at time t (seconds) and returns the frame.
// Rendering the same t always produces the same frame.
func (s *Static) Render(t float64) *herofx.Pixmap {
	copy(s.target.Data(), s.backdrop.Data())

	for i := range s.dots {
		d := &s.dots[i]
		alpha := 0.35 * (0.85 + 0.15*math.Sin(t*pulseRate+d.phase))
		s.splat(d.x, d.y, d.radius, d.color, alpha)
	}

	s.drawConstellation()
	return s.target
}

func (s *Static) drawConstellation() {
	nodeR := math.Min(float64(s.width), float64(s.height)) / 60
	if nodeR < 2 {
		nodeR = 2
	}
	lineColor := s.accent.Scale(0.3)

	for _, e := range miniEdges {
		a, b := miniNodes[e[0]], miniNodes[e[1]]
		s.line(a[0]*float64(s.width), a[1]*float64(s.height),
			b[0]*float64(s.width), b[1]*float64(s.height), lineColor)
	}
	for _, n := range miniNodes {
		cx, cy := n[0]*float64(s.width), n[1]*float64(s.height)
		s.splat(cx, cy, nodeR*2.2, s.accent, 0.25)
		s.splat(cx, cy, nodeR, s.accent, 0.85)
	}
}

// splat draws a soft additive disk with quadratic falloff.
func (s *Static) splat(cx, cy, radius float64, col herofx.RGBA, alpha float64) {
	if radius < 0.5 {
		radius = 0.5
	}
	ir := int(radius) + 1
	icx, icy := int(cx), int(cy)
	r2 := radius * radius
	for dy := -ir; dy <= ir; dy++ {
		for dx := -ir; dx <= ir; dx++ {
			fx := float64(icx+dx) - cx
			fy := float64(icy+dy) - cy
			d2 := (fx*fx + fy*fy) / r2
			if d2 >= 1 {
				continue
			}
			s.target.AddPixel(icx+dx, icy+dy, col.Scale((1-d2)*alpha))
		}
	}
}

func (s *Static) line(x0, y0, x1, y1 float64, col herofx.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		s.target.AddPixel(int(x0+dx*f), int(y0+dy*f), col)
	}
}
