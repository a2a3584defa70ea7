package features

import (
	"math"
	"testing"
)

func TestDeltaTime(t *testing.T) {
	if got := DeltaTime(100, 40); got != 60 {
		t.Errorf("DeltaTime(100, 40) = %d, want 60", got)
	}
	if got := DeltaTime(40, 100); got != 0 {
		t.Errorf("clock going backwards should clamp to 0, got %d", got)
	}
	if got := DeltaTime(50, 50); got != 0 {
		t.Errorf("DeltaTime(50, 50) = %d, want 0", got)
	}
}

func TestDisplacement(t *testing.T) {
	if got := Displacement(0, 0, 30, 40); got != 50 {
		t.Errorf("Displacement 3-4-5 triangle = %v, want 50", got)
	}
	if got := Displacement(10, 10, 10, 10); got != 0 {
		t.Errorf("zero displacement = %v, want 0", got)
	}
	// Order of points must not matter.
	if Displacement(1, 2, 7, 9) != Displacement(7, 9, 1, 2) {
		t.Error("displacement is not symmetric")
	}
}

func TestSpeed(t *testing.T) {
	// 50 px over 50 ms = 1000 px/s.
	if got := Speed(50, 50); got != 1000 {
		t.Errorf("Speed(50, 50) = %v, want 1000", got)
	}
	if got := Speed(100, 0); got != 0 {
		t.Errorf("zero interval must yield 0, got %v", got)
	}
	if got := Speed(100, -5); got != 0 {
		t.Errorf("negative interval must yield 0, got %v", got)
	}
}

func TestSpeedNeverNaNOrNegative(t *testing.T) {
	cases := []struct {
		disp float64
		dt   int64
	}{
		{0, 0},
		{0, 1},
		{math.MaxFloat64, 1},
		{1, math.MaxInt64},
	}
	for _, tc := range cases {
		s := Speed(tc.disp, tc.dt)
		if math.IsNaN(s) || s < 0 {
			t.Errorf("Speed(%v, %d) = %v, want finite non-negative", tc.disp, tc.dt, s)
		}
	}
}
