// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws the animated hero scene into a pixmap.
//
// The SceneRenderer composes three layers each frame: a rotating particle
// field with perspective projection, a constellation of glowing nodes and
// connections, and optional text labels. Post-processing effects (bloom,
// depth of field) run after compositing, gated by the active fidelity
// configuration. Fidelity can change between frames without recreating the
// renderer.
package render

import (
	"fmt"
	"math"

	"github.com/glowstack/herofx"
	"github.com/glowstack/herofx/internal/filter"
	"github.com/glowstack/herofx/scene"
)

const (
	// focalLength is the perspective camera focal distance in world units.
	// The camera sits at z = -focalLength looking down positive z.
	focalLength = 30.0

	// nearPlane clips geometry that comes too close to the camera.
	nearPlane = 1.0

	// maxParallax is the world-space shift applied at full pointer deflection.
	maxParallax = 1.8

	// parallaxRate controls how quickly the parallax offset catches up to
	// the pointer target. See scene.Approach.
	parallaxRate = 6.0

	// baseRotationRate is the field rotation in radians per second at
	// animation speed 1.0.
	baseRotationRate = 0.12

	// bloomThreshold is the luminance cutoff for the bright-pass extract.
	bloomThreshold = 0.6

	// bloomBlurRadius is the gaussian sigma for the bloom blur, scaled by
	// the fidelity bloom intensity.
	bloomBlurRadius = 4.0
)

// Option configures a SceneRenderer.
type Option func(*SceneRenderer)

// WithGraph replaces the default constellation graph.
func WithGraph(cfg scene.GraphConfig) Option {
	return func(r *SceneRenderer) { r.graph = cfg }
}

// WithField replaces the default particle field configuration.
func WithField(cfg scene.FieldConfig) Option {
	return func(r *SceneRenderer) { r.fieldCfg = cfg }
}

// WithBackground sets the clear color.
func WithBackground(c herofx.RGBA) Option {
	return func(r *SceneRenderer) { r.background = c }
}

// WithDevice supplies a GPU device handle from the host application. When
// the handle exposes a usable device, bloom extraction runs on the GPU;
// otherwise the renderer silently uses its CPU path.
func WithDevice(h DeviceHandle) Option {
	return func(r *SceneRenderer) { r.deviceHandle = h }
}

// WithLabelFont supplies TTF/OTF font data for node labels. Without a font
// the renderer skips labels entirely.
func WithLabelFont(ttf []byte) Option {
	return func(r *SceneRenderer) { r.labelData = ttf }
}

// SceneRenderer draws the animated hero scene.
//
// SceneRenderer is not safe for concurrent use; it is driven by a single
// frame loop goroutine.
type SceneRenderer struct {
	width, height int
	target        *herofx.Pixmap
	depth         []float32

	graph    scene.GraphConfig
	fieldCfg scene.FieldConfig
	cfg      herofx.FidelityConfig

	particles []scene.Particle

	background herofx.RGBA

	rotation             float64
	parallaxX, parallaxY float64
	pointerX, pointerY   float64
	hovered              string
	engaged              bool

	lastTick float64
	haveTick bool

	labelData []byte
	labels    *labelPainter

	deviceHandle DeviceHandle
	gpu          *gpuBloom
	gpuWarned    bool

	failed bool
}

// New creates a SceneRenderer for the given target size and initial fidelity
// configuration.
func New(width, height int, cfg herofx.FidelityConfig, opts ...Option) (*SceneRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid target size %dx%d", width, height)
	}

	r := &SceneRenderer{
		width:      width,
		height:     height,
		target:     herofx.NewPixmap(width, height),
		depth:      make([]float32, width*height),
		graph:      scene.DefaultGraph(),
		fieldCfg:   scene.DefaultFieldConfig(),
		cfg:        cfg,
		background: herofx.Hex("#0b1020"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.graph.Validate(); err != nil {
		return nil, fmt.Errorf("render: graph: %w", err)
	}

	r.particles = scene.GenerateField(r.fieldCfg, cfg.ParticleMultiplier)

	if r.labelData != nil {
		lp, err := newLabelPainter(r.labelData, labelSizeFor(height))
		if err != nil {
			herofx.Logger().Warn("render: label font rejected, labels disabled", "error", err)
		} else {
			r.labels = lp
		}
	}

	if r.deviceHandle != nil {
		gpu, err := newGPUBloom(r.deviceHandle)
		if err != nil {
			herofx.Logger().Debug("render: GPU bloom unavailable, using CPU path", "error", err)
		} else {
			r.gpu = gpu
		}
	}

	return r, nil
}

// labelSizeFor picks a label pixel size proportional to the target height.
func labelSizeFor(height int) float64 {
	size := float64(height) / 40
	if size < 10 {
		size = 10
	}
	return size
}

// SetConfig applies a new fidelity configuration. The particle field is
// regenerated only when the particle multiplier actually changed, so
// repeated calls with the same tier are cheap.
func (r *SceneRenderer) SetConfig(cfg herofx.FidelityConfig) {
	if cfg.ParticleMultiplier != r.cfg.ParticleMultiplier {
		r.particles = scene.GenerateField(r.fieldCfg, cfg.ParticleMultiplier)
	}
	r.cfg = cfg
}

// Config returns the fidelity configuration currently driving rendering.
func (r *SceneRenderer) Config() herofx.FidelityConfig { return r.cfg }

// SetPointer updates the parallax target. Coordinates are normalized to
// [-1, 1] relative to the viewport center; values outside are clamped.
func (r *SceneRenderer) SetPointer(x, y float64) {
	r.pointerX = clampUnit(x)
	r.pointerY = clampUnit(y)
}

// SetHovered marks a node as hovered, enlarging it and brightening its glow.
// An empty id clears the hover state.
func (r *SceneRenderer) SetHovered(id string) { r.hovered = id }

// SetEngaged toggles the engaged state, which brightens the whole
// constellation.
func (r *SceneRenderer) SetEngaged(v bool) { r.engaged = v }

// ParticleCount returns the size of the current particle field.
func (r *SceneRenderer) ParticleCount() int { return len(r.particles) }

// Target returns the pixmap the renderer draws into. The returned pixmap is
// reused across frames.
func (r *SceneRenderer) Target() *herofx.Pixmap { return r.target }

// Failed reports whether the renderer has shut itself down after an
// unrecoverable draw error.
func (r *SceneRenderer) Failed() bool { return r.failed }

// Close releases GPU resources. The renderer must not be used after Close.
func (r *SceneRenderer) Close() {
	if r.gpu != nil {
		r.gpu.Close()
		r.gpu = nil
	}
}

// Render draws a complete frame at scene time t (seconds) and returns the
// target pixmap. After an unrecoverable draw error the renderer freezes:
// Render keeps returning the last completed frame and never panics outward.
func (r *SceneRenderer) Render(t float64) (out *herofx.Pixmap) {
	if r.failed {
		return r.target
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.failed = true
			// The panicking invocation must still hand back the frozen
			// target, not a nil frame.
			out = r.target
			herofx.Logger().Error("render: frame draw failed, freezing output", "panic", rec)
		}
	}()

	dt := 0.0
	if r.haveTick {
		dt = t - r.lastTick
		if dt < 0 {
			dt = 0
		}
	}
	r.lastTick = t
	r.haveTick = true

	r.rotation += dt * baseRotationRate * r.graph.AnimationSpeed
	r.parallaxX = scene.Approach(r.parallaxX, r.pointerX*maxParallax, parallaxRate, dt)
	r.parallaxY = scene.Approach(r.parallaxY, r.pointerY*maxParallax, parallaxRate, dt)

	r.target.Clear(r.background)
	far := float32(focalLength + r.fieldCfg.Depth)
	for i := range r.depth {
		r.depth[i] = far
	}

	r.drawParticles()
	r.drawConnections(t)
	r.drawNodes(t)
	r.drawLabels()
	r.applyEffects()

	return r.target
}

// project transforms a world point through the field rotation, parallax
// shift, and perspective divide. It reports the screen position, the
// perspective scale factor, and the camera-space depth. ok is false when the
// point is behind the near plane.
func (r *SceneRenderer) project(p herofx.Vec3) (sx, sy, pscale, depth float64, ok bool) {
	cosR, sinR := math.Cos(r.rotation), math.Sin(r.rotation)
	x := p.X*cosR + p.Z*sinR
	z := -p.X*sinR + p.Z*cosR
	y := p.Y

	x += r.parallaxX
	y += r.parallaxY

	camZ := z + focalLength
	if camZ < nearPlane {
		return 0, 0, 0, 0, false
	}
	pscale = focalLength / camZ
	ppu := r.pixelsPerUnit()
	sx = float64(r.width)/2 + x*pscale*ppu
	sy = float64(r.height)/2 - y*pscale*ppu
	return sx, sy, pscale, camZ, true
}

func (r *SceneRenderer) pixelsPerUnit() float64 {
	m := r.width
	if r.height < m {
		m = r.height
	}
	return float64(m) / 12
}

func (r *SceneRenderer) drawParticles() {
	dotScale := r.pixelsPerUnit() / 40
	if dotScale < 1 {
		dotScale = 1
	}
	for i := range r.particles {
		p := &r.particles[i]
		sx, sy, pscale, depth, ok := r.project(p.Position)
		if !ok {
			continue
		}
		radius := p.Size * pscale * dotScale
		alpha := p.Brightness * pscale
		if alpha > 1 {
			alpha = 1
		}
		r.splat(sx, sy, radius, p.Color, alpha, depth)
	}
}

func (r *SceneRenderer) drawConnections(t float64) {
	opacity := scene.ConnectionOpacity(t, r.graph.AnimationSpeed)
	if r.engaged {
		opacity *= 1.4
		if opacity > 1 {
			opacity = 1
		}
	}
	for _, conn := range r.graph.Connections {
		a := r.graph.Nodes[conn[0]]
		b := r.graph.Nodes[conn[1]]
		ax, ay, _, ad, aok := r.project(a.Position)
		bx, by, _, bd, bok := r.project(b.Position)
		if !aok || !bok {
			continue
		}
		r.line(ax, ay, bx, by, r.graph.Color, opacity, (ad+bd)/2)
	}
}

func (r *SceneRenderer) drawNodes(t float64) {
	ppu := r.pixelsPerUnit()
	for i := range r.graph.Nodes {
		n := &r.graph.Nodes[i]
		sx, sy, pscale, depth, ok := r.project(n.Position)
		if !ok {
			continue
		}
		pulse := scene.NodePulse(t, *n, r.graph.AnimationSpeed)
		radius := n.Size * pscale * ppu * (0.8 + 0.4*pulse)
		glowAlpha := r.graph.GlowIntensity * (0.15 + 0.2*pulse)
		coreAlpha := 0.9
		if r.hovered == n.ID || r.engaged {
			radius *= 1.25
			glowAlpha *= 1.5
		}
		if glowAlpha > 1 {
			glowAlpha = 1
		}
		// Outer glow first, then the solid core on top.
		r.splat(sx, sy, radius*2.5, r.graph.Color, glowAlpha, depth)
		r.splat(sx, sy, radius, r.graph.Color, coreAlpha, depth)
	}
}

func (r *SceneRenderer) drawLabels() {
	if r.labels == nil {
		return
	}
	labelColor := herofx.Hex("#e7ecf5")
	ppu := r.pixelsPerUnit()
	for i := range r.graph.Nodes {
		n := &r.graph.Nodes[i]
		if n.Label == "" {
			continue
		}
		sx, sy, pscale, _, ok := r.project(n.Position)
		if !ok {
			continue
		}
		offset := n.Size*pscale*ppu*2.5 + 4
		r.labels.draw(r.target, n.Label, sx, sy+offset, labelColor)
	}
}

// splat draws a soft additive disk with quadratic falloff and records the
// nearest contributing depth for the depth-of-field pass.
func (r *SceneRenderer) splat(cx, cy, radius float64, col herofx.RGBA, alpha, depth float64) {
	if radius < 0.5 {
		radius = 0.5
	}
	ir := int(radius) + 1
	icx, icy := int(cx), int(cy)
	if icx+ir < 0 || icx-ir >= r.width || icy+ir < 0 || icy-ir >= r.height {
		return
	}
	r2 := radius * radius
	for dy := -ir; dy <= ir; dy++ {
		for dx := -ir; dx <= ir; dx++ {
			fx := float64(icx+dx) - cx
			fy := float64(icy+dy) - cy
			d2 := (fx*fx + fy*fy) / r2
			if d2 >= 1 {
				continue
			}
			fall := (1 - d2) * alpha
			r.target.AddPixel(icx+dx, icy+dy, col.Scale(fall))
			r.writeDepth(icx+dx, icy+dy, depth)
		}
	}
}

// line draws an additive 1px line by stepping the longer axis.
func (r *SceneRenderer) line(x0, y0, x1, y1 float64, col herofx.RGBA, alpha, depth float64) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	step := col.Scale(alpha)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := int(x0 + dx*f)
		y := int(y0 + dy*f)
		r.target.AddPixel(x, y, step)
		r.writeDepth(x, y, depth)
	}
}

func (r *SceneRenderer) writeDepth(x, y int, depth float64) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	idx := y*r.width + x
	d := float32(depth)
	if d < r.depth[idx] {
		r.depth[idx] = d
	}
}

// applyEffects runs the post-processing chain gated by the fidelity
// configuration. Bloom prefers the GPU path when one was set up; a GPU
// failure mid-run demotes to CPU for the rest of the session with a single
// warning.
func (r *SceneRenderer) applyEffects() {
	if !r.cfg.PostProcessingEnabled {
		return
	}
	if r.cfg.BloomEnabled && r.cfg.BloomIntensity > 0 {
		r.bloom()
	}
	if r.cfg.DepthOfFieldEnabled {
		r.depthOfField()
	}
}

func (r *SceneRenderer) bloom() {
	bright := herofx.NewPixmap(r.width, r.height)

	extracted := false
	if r.gpu != nil {
		if err := r.gpu.BrightPass(r.target, bright, bloomThreshold); err != nil {
			if !r.gpuWarned {
				herofx.Logger().Warn("render: GPU bloom failed, demoting to CPU", "error", err)
				r.gpuWarned = true
			}
			r.gpu.Close()
			r.gpu = nil
		} else {
			extracted = true
		}
	}
	if !extracted {
		filter.BrightPass(r.target, bright, bloomThreshold)
	}

	blurred := herofx.NewPixmap(r.width, r.height)
	filter.Blur(bright, blurred, bloomBlurRadius*r.cfg.BloomIntensity)
	filter.AddScaled(r.target, blurred, r.cfg.BloomIntensity)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
