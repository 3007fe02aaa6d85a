// Package herofx provides an adaptive rendering performance governor for
// animated hero scenes.
//
// # Overview
//
// herofx decides, in real time, how much visual fidelity an animated 3D-style
// scene is allowed to consume. It detects whether the runtime can create an
// accelerated graphics surface at all, samples achieved frame rate and
// monotonically downgrades fidelity under sustained underperformance, and
// suspends per-frame work entirely while the scene is off-screen.
//
// # Quick Start
//
//	import (
//	    "github.com/glowstack/herofx"
//	    "github.com/glowstack/herofx/hero"
//	)
//
//	h, err := hero.New(hero.Config{
//	    Width:         1280,
//	    Height:        720,
//	    ViewportWidth: 1280,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	// Drive one frame from the host loop:
//	h.Frame(time.Now())
//	cfg := h.Config() // current herofx.FidelityConfig snapshot
//
// # Architecture
//
// The library is organized into:
//   - Root package: fidelity tiers, colors, pixel buffers, logging
//   - probe: one-time accelerated surface capability detection
//   - governor: 3-tier frame rate state machine (downgrade-only)
//   - viewport, frameloop, mountgate: visibility gating, tick scheduling,
//     deferred construction
//   - scene, render, fallback: scene model, accelerated renderer, and the
//     CPU-only static substitute
//   - hero: composition root tying the lifecycle together
//
// Downgrades are one-way: once the governor lowers the tier it never raises
// it again on its own. This trades peak fidelity for stability (no tier
// flapping when frame rate hovers around the threshold).
package herofx
