// Package utils contains small numeric helpers shared by the geometry kernels
// and their tests.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Math.pow( x, 2 ) is slow, this is faster
func Square(n float64) float64 {
	return n * n
}

// Float64AlmostEqual reports whether a and b are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// ClampFloat restricts v to [lo, hi] without validating the bounds.
func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Hypot3 computes sqrt(x²+y²+z²) without undue overflow or underflow on large
// or small components.
func Hypot3(x, y, z float64) float64 {
	return math.Hypot(math.Hypot(x, y), z)
}
