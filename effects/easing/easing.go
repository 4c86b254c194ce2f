// Package easing provides the pure interpolation curves used by colour
// transitions.
//
// A Curve maps linear progress (0.0 to 1.0) to eased progress. Curves are
// looked up by identifier at recording time so that unknown identifiers fail
// before playback starts. Interpolate applies a curve to a single channel
// value; callers blend multi-channel colours by interpolating each channel
// independently.
//
// # Identifiers
//
// linear, quadratic_in, quadratic_out, quadratic_in_out, cubic_in, cubic_out,
// cubic_in_out, sine_in, sine_out, sine_in_out.
package easing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownEasing is returned when an easing identifier is not recognised.
var ErrUnknownEasing = errors.New("easing: unknown identifier")

// Curve maps linear progress t to eased progress.
//
// Curves are defined on [0, 1]. Polynomial curves hit the boundaries exactly;
// trigonometric curves may carry float rounding at t=1, which is why callers
// interpolate through Interpolate rather than applying curves directly.
type Curve func(t float64) float64

// Easing identifiers accepted by Resolve.
const (
	Linear         = "linear"
	QuadraticIn    = "quadratic_in"
	QuadraticOut   = "quadratic_out"
	QuadraticInOut = "quadratic_in_out"
	CubicIn        = "cubic_in"
	CubicOut       = "cubic_out"
	CubicInOut     = "cubic_in_out"
	SineIn         = "sine_in"
	SineOut        = "sine_out"
	SineInOut      = "sine_in_out"
)

// curves maps identifiers to their implementations.
var curves = map[string]Curve{
	Linear: func(t float64) float64 { return t },

	QuadraticIn:  func(t float64) float64 { return t * t },
	QuadraticOut: func(t float64) float64 { return t * (2 - t) },
	QuadraticInOut: func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	},

	CubicIn:  func(t float64) float64 { return t * t * t },
	CubicOut: func(t float64) float64 { return 1 - math.Pow(1-t, 3) },
	CubicInOut: func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	},

	SineIn:  func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	SineOut: func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	SineInOut: func(t float64) float64 {
		return -(math.Cos(math.Pi*t) - 1) / 2
	},
}

// Resolve returns the curve for the given identifier.
//
// Returns ErrUnknownEasing (wrapped with the identifier and the list of
// valid identifiers) when the identifier is not recognised.
func Resolve(kind string) (Curve, error) {
	curve, ok := curves[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownEasing, kind, strings.Join(Kinds(), ", "))
	}
	return curve, nil
}

// IsValid reports whether kind is a recognised easing identifier.
func IsValid(kind string) bool {
	_, ok := curves[kind]
	return ok
}

// Kinds returns all recognised easing identifiers in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(curves))
	for k := range curves {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Interpolate returns the eased value between start and end at progress t.
//
// Progress is clamped to [0, 1]. The result is exactly start at t <= 0 and
// exactly end at t >= 1 for every curve, regardless of float rounding inside
// the curve itself.
func Interpolate(curve Curve, start, end, t float64) float64 {
	switch {
	case t <= 0:
		return start
	case t >= 1:
		return end
	}
	return start + (end-start)*curve(t)
}
