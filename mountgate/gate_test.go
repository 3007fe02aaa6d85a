package mountgate

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestConstructRunsAfterDelay(t *testing.T) {
	var ran atomic.Bool
	g := New(10*time.Millisecond, func() { ran.Store(true) })

	deadline := time.Now().Add(2 * time.Second)
	for !ran.Load() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if !ran.Load() {
		t.Fatal("construct did not run after delay")
	}
	if !g.Fired() {
		t.Error("Fired() = false after construct ran")
	}
}

func TestCancelBeforeDelayPreventsConstruction(t *testing.T) {
	var ran atomic.Bool
	g := New(30*time.Millisecond, func() { ran.Store(true) })
	g.Cancel()

	time.Sleep(80 * time.Millisecond)
	if ran.Load() {
		t.Error("construct ran despite Cancel before the delay elapsed")
	}
	if g.Fired() {
		t.Error("Fired() = true on a cancelled gate")
	}
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	var runs atomic.Int64
	g := New(5*time.Millisecond, func() { runs.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	g.Cancel()
	g.Cancel()
	if got := runs.Load(); got != 1 {
		t.Errorf("construct ran %d times, want 1", got)
	}
}

func TestNonPositiveDelayUsesDefault(t *testing.T) {
	var ran atomic.Bool
	g := New(0, func() { ran.Store(true) })
	defer g.Cancel()

	// Must not fire immediately; the default delay is a full second.
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Error("construct ran before the default delay")
	}
}

func TestNilConstruct(t *testing.T) {
	g := New(time.Millisecond, nil)
	time.Sleep(10 * time.Millisecond)
	if g.Fired() {
		t.Error("inert gate reports Fired")
	}
	g.Cancel() // must not panic
}
