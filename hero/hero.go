// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hero wires the full adaptive hero pipeline together.
//
// A Hero starts out presenting the static fallback frame and arms a mount
// gate. When the gate fires it probes for GPU acceleration: unsupported
// hosts keep the fallback permanently, supported hosts get the animated
// scene driven by a frame loop, visibility gate, and performance governor.
// Reduced motion and sustained underperformance downgrade fidelity through
// the governor; the renderer only ever reads immutable config snapshots.
package hero

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glowstack/herofx"
	"github.com/glowstack/herofx/fallback"
	"github.com/glowstack/herofx/frameloop"
	"github.com/glowstack/herofx/governor"
	"github.com/glowstack/herofx/mountgate"
	"github.com/glowstack/herofx/probe"
	"github.com/glowstack/herofx/render"
	"github.com/glowstack/herofx/viewport"
)

// Analytics event names emitted through the notifier.
const (
	// EventMount fires when the mount gate elapses and the probe runs.
	EventMount = "hero_mount"
	// EventActive fires when the animated scene takes over presentation.
	EventActive = "hero_active"
	// EventFallback fires when the hero settles on the static fallback.
	EventFallback = "hero_fallback"
	// EventDowngrade fires on every governor tier change.
	EventDowngrade = "hero_downgrade"
)

// Config describes the host environment the hero runs in.
type Config struct {
	// Width and Height are the render target size in pixels.
	Width, Height int

	// ViewportWidth is the host viewport width used for device
	// classification. Zero means use Width.
	ViewportWidth int

	// ReducedMotion reflects the host's reduced-motion preference at
	// construction. It can change later via SetReducedMotion.
	ReducedMotion bool
}

// Option configures a Hero.
type Option func(*options)

type options struct {
	mountDelay    time.Duration
	prober        probe.Prober
	analytics     func(event string)
	clock         frameloop.Clock
	governorOpts  []governor.Option
	renderOpts    []render.Option
	viewportOpts  []viewport.Option
	fallbackOpts  []fallback.Option
	externalDrive bool
}

func defaultOptions() options {
	return options{
		mountDelay: mountgate.DefaultDelay,
	}
}

// WithMountDelay overrides the delay before the probe and scene spin up.
func WithMountDelay(d time.Duration) Option {
	return func(o *options) { o.mountDelay = d }
}

// WithProber replaces the capability probe, typically in tests.
func WithProber(p probe.Prober) Option {
	return func(o *options) { o.prober = p }
}

// WithAnalytics installs a notifier for lifecycle events. The notifier is an
// explicit collaborator: no global hooks, no consent state kept here. It may
// be called from the frame loop goroutine and must not block.
func WithAnalytics(fn func(event string)) Option {
	return func(o *options) { o.analytics = fn }
}

// WithClock replaces the frame loop clock, typically in tests.
func WithClock(c frameloop.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithGovernorOptions forwards options to the performance governor.
func WithGovernorOptions(opts ...governor.Option) Option {
	return func(o *options) { o.governorOpts = append(o.governorOpts, opts...) }
}

// WithRenderOptions forwards options to the scene renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(o *options) { o.renderOpts = append(o.renderOpts, opts...) }
}

// WithViewportOptions forwards options to the visibility gate.
func WithViewportOptions(opts ...viewport.Option) Option {
	return func(o *options) { o.viewportOpts = append(o.viewportOpts, opts...) }
}

// WithFallbackOptions forwards options to the static fallback renderer.
func WithFallbackOptions(opts ...fallback.Option) Option {
	return func(o *options) { o.fallbackOpts = append(o.fallbackOpts, opts...) }
}

// WithExternalDrive disables the internal frame loop. The host calls
// Frame(now) at its own cadence; the visibility gate then has no loop to
// suspend and Visible state only gates Frame.
func WithExternalDrive() Option {
	return func(o *options) { o.externalDrive = true }
}

// Hero owns the full pipeline lifecycle.
type Hero struct {
	mu   sync.Mutex
	cfg  Config
	opts options

	epoch  time.Time
	static *fallback.Static
	gate   *mountgate.Gate

	gov      *governor.Governor
	loop     *frameloop.Loop
	vgate    *viewport.Gate
	renderer *render.SceneRenderer

	active      bool
	unsupported bool
	closed      bool
}

// New builds a Hero presenting the static fallback and arms the mount gate.
func New(cfg Config, opts ...Option) (*Hero, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hero: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = cfg.Width
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	static, err := fallback.New(cfg.Width, cfg.Height, o.fallbackOpts...)
	if err != nil {
		return nil, err
	}

	h := &Hero{
		cfg:    cfg,
		opts:   o,
		epoch:  nowFrom(o.clock),
		static: static,
	}
	h.gate = mountgate.New(o.mountDelay, h.mount)
	return h, nil
}

func nowFrom(c frameloop.Clock) time.Time {
	if c != nil {
		return c.Now()
	}
	return time.Now()
}

// mount runs once when the mount gate fires: probe, then either settle on
// the fallback or assemble the animated pipeline.
func (h *Hero) mount() {
	var events []string
	defer func() {
		for _, e := range events {
			h.notify(e)
		}
	}()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	events = append(events, EventMount)

	prober := h.opts.prober
	if prober == nil {
		prober = probe.Detect
	}
	res := prober()
	if !res.Supported {
		h.unsupported = true
		events = append(events, EventFallback)
		herofx.Logger().Info("hero: acceleration unsupported, keeping static fallback")
		return
	}

	h.gov = governor.New(h.cfg.ViewportWidth, h.cfg.ReducedMotion, h.opts.governorOpts...)
	h.gov.OnChange(func(tier herofx.Tier, _ herofx.FidelityConfig) {
		h.notify(EventDowngrade)
		herofx.Logger().Info("hero: fidelity tier changed", "tier", tier.String())
	})

	renderOpts := h.opts.renderOpts
	renderer, err := render.New(h.cfg.Width, h.cfg.Height, h.gov.Config(), renderOpts...)
	if err != nil {
		h.unsupported = true
		h.gov = nil
		events = append(events, EventFallback)
		herofx.Logger().Warn("hero: renderer construction failed, keeping static fallback", "error", err)
		return
	}
	h.renderer = renderer

	if !h.opts.externalDrive {
		loopOpts := []frameloop.Option{
			frameloop.WithMaxFrameRate(h.gov.Config().MaxFrameRate),
		}
		if h.opts.clock != nil {
			loopOpts = append(loopOpts, frameloop.WithClock(h.opts.clock))
		}
		h.loop = frameloop.New(loopOpts...)
		h.loop.Add(func(now time.Time) { h.Frame(now) })

		h.vgate = viewport.New(h.opts.viewportOpts...)
		h.vgate.Bind(h.loop)

		h.loop.Start(context.Background())
	}

	h.active = true
	events = append(events, EventActive)
	herofx.Logger().Info("hero: animated scene active",
		"renderer", res.RendererName, "api", res.API.String())
}

// Frame advances the pipeline by one frame at the given wall time and
// returns the frame to present. Before mount, after Close, and on
// unsupported hosts this is the static fallback.
func (h *Hero) Frame(now time.Time) *herofx.Pixmap {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := now.Sub(h.epoch).Seconds()
	if h.closed || !h.active || h.renderer == nil {
		return h.static.Render(t)
	}

	h.gov.Frame(now)
	cfg := h.gov.Config()
	h.renderer.SetConfig(cfg)
	if h.loop != nil {
		h.loop.SetMaxFrameRate(cfg.MaxFrameRate)
	}
	return h.renderer.Render(t)
}

// Config returns the active fidelity configuration. Before mount and on
// fallback it reports the low tier, matching what is actually presented.
func (h *Hero) Config() herofx.FidelityConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gov == nil {
		return herofx.Config(herofx.TierLow)
	}
	return h.gov.Config()
}

// Active reports whether the animated scene is presenting.
func (h *Hero) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active && !h.closed
}

// Unsupported reports whether the probe settled the hero on the permanent
// fallback.
func (h *Hero) Unsupported() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unsupported
}

// SetVisible feeds host visibility to the gate, suspending or resuming the
// frame loop. A no-op before mount and on fallback.
func (h *Hero) SetVisible(visible bool) {
	h.mu.Lock()
	vg := h.vgate
	h.mu.Unlock()
	if vg != nil {
		vg.SetVisible(visible)
	}
}

// SetReducedMotion updates the motion preference at runtime. Enabling it
// forces the lowest fidelity tier immediately.
func (h *Hero) SetReducedMotion(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gov != nil {
		h.gov.SetReducedMotion(on)
	} else {
		h.cfg.ReducedMotion = on
	}
}

// Resize reports a new host viewport width for device classification.
func (h *Hero) Resize(viewportWidth int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg.ViewportWidth = viewportWidth
	if h.gov != nil {
		h.gov.SetViewportWidth(viewportWidth)
	}
}

// SetPointer forwards the normalized pointer position for parallax.
func (h *Hero) SetPointer(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.renderer != nil {
		h.renderer.SetPointer(x, y)
	}
}

// SetHovered forwards the hovered node id; empty clears it.
func (h *Hero) SetHovered(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.renderer != nil {
		h.renderer.SetHovered(id)
	}
}

// SetEngaged forwards the engaged highlight state.
func (h *Hero) SetEngaged(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.renderer != nil {
		h.renderer.SetEngaged(v)
	}
}

// Close tears the pipeline down synchronously: the mount gate is cancelled,
// the frame loop stopped, and GPU resources released. Safe to call at any
// lifecycle point and idempotent.
func (h *Hero) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.active = false
	gate := h.gate
	loop := h.loop
	renderer := h.renderer
	h.loop = nil
	h.vgate = nil
	h.renderer = nil
	h.mu.Unlock()

	// Stop outside the lock: the loop goroutine calls Frame, which takes it.
	if gate != nil {
		gate.Cancel()
	}
	if loop != nil {
		loop.Stop()
	}
	if renderer != nil {
		renderer.Close()
	}
}

func (h *Hero) notify(event string) {
	if h.opts.analytics != nil {
		h.opts.analytics(event)
	}
}
