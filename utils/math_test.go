package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestFloatHelpers(t *testing.T) {
	test.That(t, Square(-3), test.ShouldEqual, 9)
	test.That(t, Float64AlmostEqual(1, 1+1e-12, 1e-10), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-10), test.ShouldBeFalse)
	test.That(t, ClampFloat(5, 0, 2), test.ShouldEqual, 2)
	test.That(t, ClampFloat(-5, 0, 2), test.ShouldEqual, 0)

	// Hypot3 survives components whose squares overflow float64
	test.That(t, Hypot3(3e200, 4e200, 0), test.ShouldAlmostEqual, 5e200, 1e187)
	test.That(t, Hypot3(3, 4, 12), test.ShouldAlmostEqual, 13)
}
