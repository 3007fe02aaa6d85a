// Package frameloop provides the cooperative per-frame tick source that
// drives the governor's sampler and the scene renderer's animation.
//
// The loop stands in for a host environment's request-frame callback: all
// registered callbacks run once per tick on a single goroutine. Relative
// ordering between callbacks within a tick is unspecified; callbacks must
// be order-independent and read only immutable snapshots of shared state.
//
// Suspension stops frame scheduling entirely — a suspended loop holds no
// armed timer and burns no CPU, which is the point of viewport gating.
package frameloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Callback is invoked once per tick with the tick time.
type Callback func(now time.Time)

// Option configures a Loop during creation.
type Option func(*Loop)

// WithClock sets the loop's time source. Default is the monotonic wall clock.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithMaxFrameRate sets the initial scheduling ceiling in frames per second.
// Default 60.
func WithMaxFrameRate(fps int) Option {
	return func(l *Loop) {
		l.setRate(fps)
	}
}

// Loop is a suspendable fixed-rate tick source.
//
// Callbacks are registered with Add before Start. Start runs the loop on its
// own goroutine; Tick steps it manually for hosts that bring their own
// scheduler (and for tests). Stop is synchronous and idempotent: when it
// returns, no callback will fire again.
type Loop struct {
	mu        sync.Mutex
	callbacks []Callback

	clock    Clock
	interval atomic.Int64 // nanoseconds per frame

	suspended atomic.Bool
	resumeCh  chan struct{}

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a loop. It does not start ticking until Start is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:    monotonicClock{},
		resumeCh: make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
	l.setRate(60)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers a per-tick callback. Nil callbacks are ignored.
func (l *Loop) Add(cb Callback) {
	if cb == nil {
		return
	}
	l.mu.Lock()
	l.callbacks = append(l.callbacks, cb)
	l.mu.Unlock()
}

// SetMaxFrameRate adjusts the scheduling ceiling. Safe to call while the
// loop is running; the new rate applies from the next armed timer.
func (l *Loop) SetMaxFrameRate(fps int) {
	l.setRate(fps)
}

func (l *Loop) setRate(fps int) {
	if fps < 1 {
		fps = 1
	}
	l.interval.Store(int64(time.Second) / int64(fps))
}

// Tick runs all registered callbacks once. Hosts with their own frame
// scheduler call this directly instead of Start.
func (l *Loop) Tick(now time.Time) {
	l.mu.Lock()
	cbs := make([]Callback, len(l.callbacks))
	copy(cbs, l.callbacks)
	l.mu.Unlock()

	for _, cb := range cbs {
		cb(now)
	}
}

// Start launches the loop goroutine. Calling Start on a running or stopped
// loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	l.wg.Add(1)
	go l.run(ctx)
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()

	timer := time.NewTimer(time.Duration(l.interval.Load()))
	defer timer.Stop()

	for {
		if l.suspended.Load() {
			// Disarm the timer while suspended: no pending work at all.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			select {
			case <-l.resumeCh:
				timer.Reset(time.Duration(l.interval.Load()))
			case <-l.stopChan:
				return
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-timer.C:
			l.Tick(l.clock.Now())
			timer.Reset(time.Duration(l.interval.Load()))
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Suspend stops scheduling future ticks. Any tick already in flight
// completes; after that the loop parks without an armed timer.
func (l *Loop) Suspend() {
	l.suspended.Store(true)
}

// Resume restarts tick scheduling. The next tick fires one interval after
// the resume takes effect.
func (l *Loop) Resume() {
	if !l.suspended.CompareAndSwap(true, false) {
		return
	}
	select {
	case l.resumeCh <- struct{}{}:
	default:
	}
}

// Suspended reports whether scheduling is currently suspended.
func (l *Loop) Suspended() bool {
	return l.suspended.Load()
}

// Stop shuts the loop down and waits for the loop goroutine to exit.
// Stop is idempotent and safe to call whether or not Start was called.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}
