// Package utils contains small numeric helpers shared across the kinematics packages.
package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Linspace returns n evenly spaced values over [lo, hi], both endpoints included.
// n must be at least 2.
func Linspace(lo, hi float64, n int) []float64 {
	vals := floats.Span(make([]float64, n), lo, hi)
	vals[n-1] = hi
	return vals
}
