// Package viewport gates per-frame rendering work on screen-space
// visibility.
//
// The gate mirrors an intersection-observer contract: it is fed element and
// viewport geometry (or a precomputed visibility flag), derives an active
// flag from the visible fraction of the element, and suspends or resumes a
// bound frame loop. Suspension stops frame scheduling entirely rather than
// skipping draw calls — an off-screen scene must cost nothing.
package viewport

import (
	"image"
	"sync/atomic"
)

// Suspender is the scheduling surface the gate controls.
// *frameloop.Loop satisfies it.
type Suspender interface {
	Suspend()
	Resume()
}

// Option configures a Gate during creation.
type Option func(*Gate)

// WithVisibleThreshold sets the minimum visible fraction of the element's
// area for the gate to report active. Default 0.1.
func WithVisibleThreshold(f float64) Option {
	return func(g *Gate) {
		if f > 0 && f <= 1 {
			g.threshold = f
		}
	}
}

// WithPreTriggerMargin expands the viewport by the given number of pixels on
// every side, so rendering warms up slightly before the element scrolls
// fully into view. Default 50.
func WithPreTriggerMargin(px int) Option {
	return func(g *Gate) {
		if px >= 0 {
			g.margin = px
		}
	}
}

// Gate derives an active flag from element visibility.
//
// Observe and SetVisible are single-writer: call them from one goroutine
// (the host's observation callback). Active reads an atomic flag and is safe
// from anywhere.
type Gate struct {
	threshold float64
	margin    int

	active atomic.Bool
	target Suspender
}

// New creates a gate. The gate starts inactive; the first observation
// decides the real state.
func New(opts ...Option) *Gate {
	g := &Gate{
		threshold: 0.1,
		margin:    50,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bind attaches a frame loop (or any Suspender) to the gate and immediately
// applies the current state to it.
func (g *Gate) Bind(s Suspender) {
	g.target = s
	g.apply(g.active.Load())
}

// Observe feeds the gate one visibility measurement: the element's bounds
// and the viewport bounds, both in the same coordinate space. The viewport
// is expanded by the pre-trigger margin before intersecting.
func (g *Gate) Observe(element, viewport image.Rectangle) {
	g.SetVisible(g.visibleFraction(element, viewport) >= g.threshold)
}

// SetVisible is the direct entry for hosts that already computed visibility.
// Transitions suspend or resume the bound loop; repeated identical states
// are no-ops.
func (g *Gate) SetVisible(visible bool) {
	if g.active.Swap(visible) == visible {
		return
	}
	g.apply(visible)
}

// Active reports whether the scene is currently visible enough to render.
// When false, the owning render loop schedules no frames at all.
func (g *Gate) Active() bool {
	return g.active.Load()
}

func (g *Gate) apply(active bool) {
	if g.target == nil {
		return
	}
	if active {
		g.target.Resume()
	} else {
		g.target.Suspend()
	}
}

// visibleFraction returns the fraction of the element's area inside the
// margin-expanded viewport. A degenerate element reports 0.
func (g *Gate) visibleFraction(element, viewport image.Rectangle) float64 {
	area := element.Dx() * element.Dy()
	if area <= 0 {
		return 0
	}
	expanded := viewport.Inset(-g.margin)
	visible := element.Intersect(expanded)
	return float64(visible.Dx()*visible.Dy()) / float64(area)
}
