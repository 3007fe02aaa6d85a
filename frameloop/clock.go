package frameloop

import (
	"sync"
	"time"
)

// Clock provides the loop's time source. The default clock reads the
// monotonic wall clock; tests inject a controllable fake.
type Clock interface {
	Now() time.Time
}

// monotonicClock is the default Clock backed by time.Now.
type monotonicClock struct{}

func (monotonicClock) Now() time.Time { return time.Now() }

// FakeClock is a controllable time source for testing time-driven logic.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFakeClock creates a fake clock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SetTime sets the fake clock to an absolute time.
func (c *FakeClock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
