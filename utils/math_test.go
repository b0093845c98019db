package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversion(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(-37.5)), test.ShouldAlmostEqual, -37.5)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-9), test.ShouldBeFalse)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(2, -1, 1), test.ShouldEqual, 1)
	test.That(t, Clamp(-2, -1, 1), test.ShouldEqual, -1)
	test.That(t, Clamp(0.5, -1, 1), test.ShouldEqual, 0.5)
}

func TestLinspace(t *testing.T) {
	vals := Linspace(-math.Pi, math.Pi, 100)
	test.That(t, vals, test.ShouldHaveLength, 100)
	test.That(t, vals[0], test.ShouldEqual, -math.Pi)
	test.That(t, vals[99], test.ShouldEqual, math.Pi)
	step := 2 * math.Pi / 99
	for i := 1; i < len(vals); i++ {
		test.That(t, vals[i]-vals[i-1], test.ShouldAlmostEqual, step, 1e-12)
	}

	vals = Linspace(0, 1, 2)
	test.That(t, vals, test.ShouldResemble, []float64{0, 1})
}
