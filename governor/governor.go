// Package governor implements the 3-tier rendering fidelity state machine.
//
// The governor samples achieved frame rate in one-second windows and
// downgrades visual fidelity when a full window of samples averages below
// the threshold. Downgrades are one-way: there is no automatic upgrade path,
// even if frame rate recovers. A live reduced-motion preference change
// forces TierLow immediately, bypassing the sample window.
package governor

import (
	"sync/atomic"
	"time"

	"github.com/glowstack/herofx"
)

// maxWindowGap is the longest elapsed time still treated as a real sample
// window. Longer gaps mean the frame loop was suspended, not slow.
const maxWindowGap = 5 * time.Second

// Governor is the adaptive fidelity state machine.
//
// A Governor is single-writer: Frame, SetReducedMotion, SetViewportWidth and
// ForceTier must all be called from the same goroutine (normally the host
// frame loop). Config and Tier read an atomic snapshot and are safe to call
// from anywhere.
type Governor struct {
	opts options

	tier   herofx.Tier
	config atomic.Pointer[herofx.FidelityConfig]

	window      *sampleWindow
	frames      int
	windowStart time.Time

	reducedMotion bool

	// Device classification, updated on viewport resize. These flags never
	// change the tier on their own.
	isMobile  bool
	isTablet  bool
	isDesktop bool

	onChange []func(herofx.Tier, herofx.FidelityConfig)
}

// New creates a governor with its initial tier derived from the viewport
// width and the reduced-motion preference:
//
//   - reduced motion: TierLow, unconditionally
//   - width below the tablet breakpoint: TierMedium
//   - otherwise: TierHigh
//
// WithInitialTier overrides the width-derived tier but not reduced motion.
func New(viewportWidth int, reducedMotion bool, opts ...Option) *Governor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := &Governor{
		opts:          o,
		window:        newSampleWindow(o.sampleWindowSize),
		reducedMotion: reducedMotion,
	}
	g.classify(viewportWidth)

	switch {
	case reducedMotion:
		g.tier = herofx.TierLow
	case o.initialTier != nil:
		g.tier = *o.initialTier
	case viewportWidth < o.tabletBreakpoint:
		g.tier = herofx.TierMedium
	default:
		g.tier = herofx.TierHigh
	}
	g.snapshot()
	return g
}

// Frame records one rendered frame at the given time. Every elapsed
// one-second window produces a frame rate sample; a full sample window
// averaging below the threshold downgrades the tier by exactly one step.
//
// Call once per tick from the host frame loop.
func (g *Governor) Frame(now time.Time) {
	if g.windowStart.IsZero() {
		g.windowStart = now
		return
	}
	if now.Before(g.windowStart) {
		// Clock went backwards; discard the partial window rather than
		// produce a negative or infinite frame rate.
		g.windowStart = now
		g.frames = 0
		return
	}

	g.frames++
	elapsed := now.Sub(g.windowStart)
	if elapsed < time.Second {
		return
	}
	if elapsed > maxWindowGap {
		// The loop was suspended (viewport gate, tab in background). The gap
		// is not a real sample window; re-anchor instead of recording a
		// near-zero frame rate.
		g.frames = 0
		g.windowStart = now
		return
	}

	secs := elapsed.Seconds()
	fps := float64(g.frames) / secs
	g.frames = 0
	g.windowStart = now

	g.window.Push(fps)
	herofx.Logger().Debug("governor: sample",
		"fps", fps, "window", g.window.Len(), "tier", g.tier.String())

	if g.window.Full() && g.window.Mean() < g.opts.fpsThreshold {
		g.downgrade()
	}
}

// downgrade lowers the tier by one step and clears the sample window so the
// new tier gets a full window before the next decision. TierLow stays TierLow.
func (g *Governor) downgrade() {
	if g.tier == herofx.TierLow {
		g.window.Reset()
		return
	}
	g.setTier(g.tier - 1)
	herofx.Logger().Info("governor: tier downgraded",
		"tier", g.tier.String(), "threshold", g.opts.fpsThreshold)
}

// SetReducedMotion records a live preference change. Enabling reduced motion
// forces TierLow immediately, independent of sample window state. Disabling
// it does not raise the tier back.
func (g *Governor) SetReducedMotion(on bool) {
	g.reducedMotion = on
	if on && g.tier != herofx.TierLow {
		g.setTier(herofx.TierLow)
		herofx.Logger().Info("governor: reduced motion forced low tier")
	}
}

// SetViewportWidth records a viewport resize. Resizes update only the
// device classification flags, never the tier.
func (g *Governor) SetViewportWidth(px int) {
	g.classify(px)
}

// ForceTier sets the tier directly. Invalid tiers are ignored and the last
// valid tier is retained. Automatic downgrades continue from the new tier.
func (g *Governor) ForceTier(t herofx.Tier) {
	if !t.Valid() {
		herofx.Logger().Debug("governor: ignoring invalid tier", "tier", int(t))
		return
	}
	g.setTier(t)
}

// setTier applies a tier change: new config snapshot, cleared sample window,
// change notifications.
func (g *Governor) setTier(t herofx.Tier) {
	g.tier = t
	g.window.Reset()
	g.snapshot()
	cfg := g.Config()
	for _, fn := range g.onChange {
		fn(t, cfg)
	}
}

func (g *Governor) snapshot() {
	cfg := herofx.Config(g.tier)
	g.config.Store(&cfg)
}

func (g *Governor) classify(width int) {
	g.isMobile = width < g.opts.mobileBreakpoint
	g.isTablet = width >= g.opts.mobileBreakpoint && width < g.opts.tabletBreakpoint
	g.isDesktop = width >= g.opts.tabletBreakpoint
}

// Tier returns the current fidelity tier.
func (g *Governor) Tier() herofx.Tier {
	return g.config.Load().Tier
}

// Config returns the current fidelity configuration snapshot.
// The returned value is immutable; a new snapshot is produced only when
// the tier changes.
func (g *Governor) Config() herofx.FidelityConfig {
	return *g.config.Load()
}

// ReducedMotion reports the last observed reduced-motion preference.
func (g *Governor) ReducedMotion() bool {
	return g.reducedMotion
}

// DeviceClass returns the current (mobile, tablet, desktop) classification.
func (g *Governor) DeviceClass() (mobile, tablet, desktop bool) {
	return g.isMobile, g.isTablet, g.isDesktop
}

// OnChange registers a callback invoked synchronously on every tier change
// with the new tier and its config snapshot. Must be called before the
// governor starts receiving frames.
func (g *Governor) OnChange(fn func(herofx.Tier, herofx.FidelityConfig)) {
	if fn != nil {
		g.onChange = append(g.onChange, fn)
	}
}

// pendingSamples reports how many samples the window currently holds.
// Exposed for tests.
func (g *Governor) pendingSamples() int {
	return g.window.Len()
}
