package governor

// sampleWindow is a fixed-capacity sliding buffer of frame rate samples.
// Once at capacity, pushing a new sample drops the oldest. The window is
// cleared whenever the governor changes tier, so every tier gets a fresh
// run of samples before the next downgrade decision.
type sampleWindow struct {
	samples []float64
	cap     int
}

func newSampleWindow(capacity int) *sampleWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &sampleWindow{
		samples: make([]float64, 0, capacity),
		cap:     capacity,
	}
}

// Push appends a sample, dropping the oldest when the window is full.
func (w *sampleWindow) Push(fps float64) {
	if len(w.samples) == w.cap {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.cap-1]
	}
	w.samples = append(w.samples, fps)
}

// Full reports whether the window holds a complete run of samples.
func (w *sampleWindow) Full() bool {
	return len(w.samples) == w.cap
}

// Len returns the number of samples currently held.
func (w *sampleWindow) Len() int {
	return len(w.samples)
}

// Mean returns the average of all held samples, or 0 for an empty window.
func (w *sampleWindow) Mean() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range w.samples {
		sum += s
	}
	return sum / float64(len(w.samples))
}

// Reset discards all samples, keeping the backing storage.
func (w *sampleWindow) Reset() {
	w.samples = w.samples[:0]
}
