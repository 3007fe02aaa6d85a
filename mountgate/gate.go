// Package mountgate defers construction of the accelerated rendering path.
//
// The gate holds construction for a fixed delay after the hero becomes
// interactive so the heavy path never competes with critical first-paint
// content. Until the delay elapses (and capability is confirmed) callers
// present the static fallback; the idle state costs one armed timer and
// zero allocations.
package mountgate

import (
	"sync"
	"time"
)

// DefaultDelay is the mount delay used when none is configured.
const DefaultDelay = time.Second

// Gate arms a one-shot construction timer.
//
// Exactly one of two things happens: the delay elapses and construct runs
// (once, on the timer's goroutine), or Cancel stops the timer first and
// construct never runs. Both paths are idempotent and safe to race.
type Gate struct {
	timer *time.Timer

	mu        sync.Mutex
	fired     bool
	cancelled bool
}

// New arms a gate that runs construct after delay. A non-positive delay is
// replaced by DefaultDelay. A nil construct yields an inert gate.
func New(delay time.Duration, construct func()) *Gate {
	if delay <= 0 {
		delay = DefaultDelay
	}
	g := &Gate{}
	if construct == nil {
		return g
	}
	g.timer = time.AfterFunc(delay, func() {
		g.mu.Lock()
		if g.cancelled {
			g.mu.Unlock()
			return
		}
		g.fired = true
		g.mu.Unlock()
		construct()
	})
	return g
}

// Cancel stops the pending construction. If the timer already fired, Cancel
// is a no-op. Safe to call multiple times and from any goroutine.
func (g *Gate) Cancel() {
	g.mu.Lock()
	g.cancelled = true
	g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
}

// Fired reports whether construction has run.
func (g *Gate) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
