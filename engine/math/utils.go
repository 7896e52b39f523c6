package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Lerp linearly interpolates between a and b. t is not clamped.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Wrap folds `f` into [0, length). A non-positive length yields 0.
func Wrap[T constraints.Float](f, length T) T {
	if length <= 0 {
		return 0
	}
	f = T(m.Mod(float64(f), float64(length)))
	if f < 0 {
		f += length
	}
	if f >= length {
		return 0
	}
	return f
}
