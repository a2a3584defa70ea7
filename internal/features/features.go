// Package features computes per-event derived quantities: inter-event
// timing, pointer displacement, and pointer speed. All functions are pure
// and deterministic so the hook callback can call them without locks.
package features

import "math"

// DeltaTime returns the non-negative gap in milliseconds between now and
// prev. A negative difference (clock adjustment mid-session) clamps to 0.
func DeltaTime(nowMs, prevMs int64) int64 {
	d := nowMs - prevMs
	if d < 0 {
		return 0
	}
	return d
}

// Displacement returns the Euclidean distance in pixels between two
// screen-space points.
func Displacement(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Hypot(dx, dy)
}

// Speed converts a displacement over an interval to pixels per second.
// A zero interval yields zero; the result is always finite and non-negative.
func Speed(displacementPx float64, dtMs int64) float64 {
	if dtMs <= 0 {
		return 0
	}
	s := displacementPx / (float64(dtMs) / 1000.0)
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return 0
	}
	return s
}
