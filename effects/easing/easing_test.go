package easing

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestResolveAllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			curve, err := Resolve(kind)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", kind, err)
			}
			if curve == nil {
				t.Fatalf("Resolve(%q) returned nil curve", kind)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	tests := []string{"", "bounce", "LINEAR", "quadratic", "sine"}

	for _, kind := range tests {
		t.Run(kind, func(t *testing.T) {
			_, err := Resolve(kind)
			if !errors.Is(err, ErrUnknownEasing) {
				t.Errorf("Resolve(%q) error = %v, want ErrUnknownEasing", kind, err)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(Linear) {
		t.Error("IsValid(Linear) = false, want true")
	}
	if IsValid("elastic") {
		t.Error("IsValid(\"elastic\") = true, want false")
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 10 {
		t.Errorf("Kinds() returned %d identifiers, want 10", len(kinds))
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Errorf("Kinds() not sorted: %q before %q", kinds[i-1], kinds[i])
		}
	}
}

// TestInterpolateBoundaries verifies the exact-endpoint guarantee for every
// curve: progress 0 yields exactly the start value and progress 1 exactly the
// end value, including the trigonometric curves where the raw curve carries
// float rounding at the boundaries.
func TestInterpolateBoundaries(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			curve, err := Resolve(kind)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", kind, err)
			}

			if got := Interpolate(curve, 0, 240, 0); got != 0 {
				t.Errorf("Interpolate(%s, 0, 240, 0) = %v, want exactly 0", kind, got)
			}
			if got := Interpolate(curve, 0, 240, 1); got != 240 {
				t.Errorf("Interpolate(%s, 0, 240, 1) = %v, want exactly 240", kind, got)
			}
		})
	}
}

func TestInterpolateClampsProgress(t *testing.T) {
	curve, err := Resolve(Linear)
	if err != nil {
		t.Fatalf("Resolve(Linear): %v", err)
	}

	if got := Interpolate(curve, 10, 20, -0.5); got != 10 {
		t.Errorf("Interpolate with t=-0.5 = %v, want 10", got)
	}
	if got := Interpolate(curve, 10, 20, 1.5); got != 20 {
		t.Errorf("Interpolate with t=1.5 = %v, want 20", got)
	}
}

// TestLinearMidpoint pins the behaviour a linear hue sweep relies on: halfway
// through a 0→240 transition the interpolated channel sits at 120.
func TestLinearMidpoint(t *testing.T) {
	curve, err := Resolve(Linear)
	if err != nil {
		t.Fatalf("Resolve(Linear): %v", err)
	}

	got := Interpolate(curve, 0, 240, 0.5)
	if math.Abs(got-120) > epsilon {
		t.Errorf("linear midpoint = %v, want 120", got)
	}
}

func TestCurveShapes(t *testing.T) {
	tests := []struct {
		kind string
		t    float64
		want float64
	}{
		{Linear, 0.25, 0.25},
		{QuadraticIn, 0.5, 0.25},
		{QuadraticOut, 0.5, 0.75},
		{QuadraticInOut, 0.25, 0.125},
		{QuadraticInOut, 0.75, 0.875},
		{CubicIn, 0.5, 0.125},
		{CubicOut, 0.5, 0.875},
		{CubicInOut, 0.25, 0.0625},
		{CubicInOut, 0.75, 0.9375},
		{SineIn, 0.5, 1 - math.Cos(math.Pi/4)},
		{SineOut, 0.5, math.Sin(math.Pi / 4)},
		{SineInOut, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			curve, err := Resolve(tt.kind)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.kind, err)
			}
			got := curve(tt.t)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("%s(%v) = %v, want %v", tt.kind, tt.t, got, tt.want)
			}
		})
	}
}

// TestCurvesMonotonic verifies every curve is non-decreasing across [0, 1].
// A transition must never step a channel backwards mid-sweep.
func TestCurvesMonotonic(t *testing.T) {
	const steps = 1000

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			curve, err := Resolve(kind)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", kind, err)
			}

			prev := curve(0)
			for i := 1; i <= steps; i++ {
				p := float64(i) / steps
				cur := curve(p)
				if cur < prev-epsilon {
					t.Fatalf("%s decreases at t=%v: %v -> %v", kind, p, prev, cur)
				}
				prev = cur
			}
		})
	}
}
