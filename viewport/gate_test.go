package viewport

import (
	"image"
	"testing"
)

// fakeSuspender records suspend/resume transitions.
type fakeSuspender struct {
	suspends int
	resumes  int
}

func (f *fakeSuspender) Suspend() { f.suspends++ }
func (f *fakeSuspender) Resume()  { f.resumes++ }

func TestObserveThreshold(t *testing.T) {
	viewportRect := image.Rect(0, 0, 1000, 800)

	tests := []struct {
		name    string
		element image.Rectangle
		want    bool
	}{
		{"fully inside", image.Rect(100, 100, 300, 300), true},
		{"fully outside below", image.Rect(0, 2000, 200, 2200), false},
		{"well over threshold", image.Rect(0, 700, 200, 900), true},
		// 200x200 element with 10 rows inside the margin-expanded viewport:
		// (800+50-840)=10 visible rows -> 2000/40000 = 5% < 10%.
		{"below threshold", image.Rect(0, 840, 200, 1040), false},
		// 30 rows visible -> 15% >= 10%.
		{"just over threshold via margin", image.Rect(0, 820, 200, 1020), true},
		{"degenerate element", image.Rect(50, 50, 50, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.Observe(tt.element, viewportRect)
			if got := g.Active(); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreTriggerMarginDisabled(t *testing.T) {
	viewportRect := image.Rect(0, 0, 1000, 800)
	// Element entirely inside the default 50px margin band below the fold.
	element := image.Rect(0, 810, 200, 840)

	g := New()
	g.Observe(element, viewportRect)
	if !g.Active() {
		t.Error("default margin: Active() = false, want true")
	}

	g = New(WithPreTriggerMargin(0))
	g.Observe(element, viewportRect)
	if g.Active() {
		t.Error("zero margin: Active() = true, want false")
	}
}

func TestBindSuspendsAndResumes(t *testing.T) {
	g := New()
	s := &fakeSuspender{}
	g.Bind(s) // gate starts inactive -> immediate suspend
	if s.suspends != 1 {
		t.Fatalf("suspends = %d after Bind, want 1", s.suspends)
	}

	g.SetVisible(true)
	if s.resumes != 1 {
		t.Errorf("resumes = %d after visible, want 1", s.resumes)
	}

	// Repeated identical states are no-ops.
	g.SetVisible(true)
	g.SetVisible(true)
	if s.resumes != 1 {
		t.Errorf("resumes = %d after repeated visible, want 1", s.resumes)
	}

	g.SetVisible(false)
	if s.suspends != 2 {
		t.Errorf("suspends = %d after hidden, want 2", s.suspends)
	}
}

func TestCustomThreshold(t *testing.T) {
	viewportRect := image.Rect(0, 0, 100, 100)
	// A quarter of the element visible.
	element := image.Rect(0, 50, 100, 250)

	g := New(WithVisibleThreshold(0.6), WithPreTriggerMargin(0))
	g.Observe(element, viewportRect)
	if g.Active() {
		t.Error("25%% visible with 60%% threshold: Active() = true, want false")
	}

	g = New(WithVisibleThreshold(0.2), WithPreTriggerMargin(0))
	g.Observe(element, viewportRect)
	if !g.Active() {
		t.Error("25%% visible with 20%% threshold: Active() = false, want true")
	}
}
