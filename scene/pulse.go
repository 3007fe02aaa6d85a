package scene

import "math"

// NodePulse returns the pulse factor in [0, 1] for a node at time t
// (seconds). The phase is offset by the node's own spatial coordinates so
// nodes never pulse in lockstep.
func NodePulse(t float64, n Node, speed float64) float64 {
	phase := n.Position.X*2 + n.Position.Y
	return 0.5 + 0.5*math.Sin(t*2*speed+phase)
}

// ConnectionOpacity returns the slowly oscillating opacity for connection
// lines at time t. The oscillation is independent of node pulsing: a
// different frequency and no positional phase.
func ConnectionOpacity(t, speed float64) float64 {
	return 0.3 + 0.15*math.Sin(t*0.5*speed)
}

// Approach moves current toward target with exponential smoothing over dt
// seconds. Used for pointer parallax so the offset eases toward the pointer
// target each tick instead of snapping, which would read as jitter.
func Approach(current, target, rate, dt float64) float64 {
	if dt <= 0 || rate <= 0 {
		return current
	}
	return current + (target-current)*(1-math.Exp(-rate*dt))
}
