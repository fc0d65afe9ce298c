package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/hexbotics/framemath/frames"
)

func TestNewQuaternion(t *testing.T) {
	q, err := NewQuaternion(world, camera, 0, 0, 0, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.X(), test.ShouldEqual, 0)
	test.That(t, q.W(), test.ShouldEqual, 1)
	test.That(t, q.To, test.ShouldEqual, world)
	test.That(t, q.From, test.ShouldEqual, camera)

	_, err = NewQuaternion(world, world, 0, 0, 0, 1)
	test.That(t, err, test.ShouldWrap, frames.ErrIdenticalFrames)
}

func TestQuaternionNormalizeInverse(t *testing.T) {
	q, err := NewQuaternion(world, camera, 1, 1, 1, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.Norm(), test.ShouldAlmostEqual, 2)
	test.That(t, q.NormSquared(), test.ShouldAlmostEqual, 4)

	unit, err := q.Normalize()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, unit.Norm(), test.ShouldAlmostEqual, 1)

	zero, err := NewQuaternion(world, camera, 0, 0, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	_, err = zero.Normalize()
	test.That(t, err, test.ShouldWrap, ErrDegenerateQuaternion)
	_, err = zero.Inverse()
	test.That(t, err, test.ShouldWrap, ErrDegenerateQuaternion)
	test.That(t, math.IsNaN(zero.NormalizeUnchecked().W()), test.ShouldBeTrue)

	inv, err := unit.Inverse()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inv.To, test.ShouldEqual, camera)
	test.That(t, inv.From, test.ShouldEqual, world)

	// q ∘ q⁻¹ is the identity on the world frame
	identity := ComposeQuats(unit, inv)
	test.That(t, identity.W(), test.ShouldAlmostEqual, 1)
	test.That(t, identity.X(), test.ShouldAlmostEqual, 0)
	test.That(t, identity.Y(), test.ShouldAlmostEqual, 0)
	test.That(t, identity.Z(), test.ShouldAlmostEqual, 0)
}

func TestRotateDelta3(t *testing.T) {
	quarterZ, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 1), math.Pi/2)
	test.That(t, err, test.ShouldBeNil)

	got, err := quarterZ.RotateDelta3(NewDelta3(world, meters, 1, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.ApproxEqual(NewDelta3(world, meters, 0, 1, 0), 1e-12), test.ShouldBeTrue)
	test.That(t, got.Unit, test.ShouldEqual, meters)

	dir := quarterZ.RotateDir3Unchecked(NewDir3(world, 0, 1, 0))
	test.That(t, dir.X, test.ShouldAlmostEqual, -1)
	test.That(t, dir.Y, test.ShouldAlmostEqual, 0)

	zero, err := NewQuaternion(world, camera, 0, 0, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	_, err = zero.RotateDelta3(NewDelta3(camera, meters, 1, 0, 0))
	test.That(t, err, test.ShouldWrap, ErrDegenerateQuaternion)
}

func TestComposeQuatsOrder(t *testing.T) {
	camToRobot, err := NewQuaternion(robot, camera, 0, 0, math.Sin(math.Pi/4), math.Cos(math.Pi/4))
	test.That(t, err, test.ShouldBeNil)
	robotToWorld, err := NewQuaternion(world, robot, math.Sin(math.Pi/8), 0, 0, math.Cos(math.Pi/8))
	test.That(t, err, test.ShouldBeNil)

	// inner applied first: rotating by the composition equals rotating twice
	composed := ComposeQuats(robotToWorld, camToRobot)
	test.That(t, composed.To, test.ShouldEqual, world)
	test.That(t, composed.From, test.ShouldEqual, camera)

	v := NewDelta3(camera, meters, 0.3, -0.7, 0.2)
	inRobot, err := camToRobot.RotateDelta3(v)
	test.That(t, err, test.ShouldBeNil)
	stepwise, err := robotToWorld.RotateDelta3(inRobot)
	test.That(t, err, test.ShouldBeNil)
	atOnce, err := composed.RotateDelta3(v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atOnce.ApproxEqual(stepwise, 1e-12), test.ShouldBeTrue)

	// mismatched chains are a programmer error
	test.That(t, func() { ComposeQuats(camToRobot, robotToWorld) }, test.ShouldPanic)
}

func TestQuatFromAxisAngle(t *testing.T) {
	q, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 3), math.Pi/3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.W(), test.ShouldAlmostEqual, math.Cos(math.Pi/6))
	test.That(t, q.Z(), test.ShouldAlmostEqual, math.Sin(math.Pi/6))

	axis, angle := q.AxisAngle()
	test.That(t, angle, test.ShouldAlmostEqual, math.Pi/3)
	test.That(t, axis.Z, test.ShouldAlmostEqual, 1)

	_, err = QuatFromAxisAngle(NewDir3(world, 0, 0, 0), 1)
	test.That(t, err, test.ShouldWrap, ErrDegenerateVector)

	identityAxis, identityAngle := NewIdentityQuaternion(world).AxisAngle()
	test.That(t, identityAngle, test.ShouldEqual, 0)
	test.That(t, identityAxis.Z, test.ShouldEqual, 1)
}

func TestQuatFromEuler(t *testing.T) {
	x, z := math.Pi/2, math.Pi/2
	xyz, err := QuatFromEuler(world, x, 0, z, "XYZ")
	test.That(t, err, test.ShouldBeNil)
	zyx, err := QuatFromEuler(world, x, 0, z, "ZYX")
	test.That(t, err, test.ShouldBeNil)

	v := NewDelta3(world, meters, 0, 1, 0)
	// order "XYZ" applies X innermost: (0,1,0) -> (0,0,1) -> unchanged by Z
	got, err := xyz.RotateDelta3(v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.ApproxEqual(NewDelta3(world, meters, 0, 0, 1), 1e-12), test.ShouldBeTrue)
	// order "ZYX" applies Z innermost: (0,1,0) -> (-1,0,0) -> unchanged by X
	got, err = zyx.RotateDelta3(v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.ApproxEqual(NewDelta3(world, meters, -1, 0, 0), 1e-12), test.ShouldBeTrue)

	roll, pitch, yaw := xyz.EulerAngles()
	test.That(t, roll, test.ShouldAlmostEqual, x)
	test.That(t, pitch, test.ShouldAlmostEqual, 0)
	test.That(t, yaw, test.ShouldAlmostEqual, z)

	_, err = QuatFromEuler(world, 1, 2, 3, "XQZ")
	test.That(t, err, test.ShouldWrap, ErrInvalidEulerOrder)
}

func TestNLerp(t *testing.T) {
	start := NewIdentityQuaternion(world)
	end, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 1), math.Pi/2)
	test.That(t, err, test.ShouldBeNil)

	atStart, err := start.NLerp(end, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atStart.ApproxEqual(start, 1e-12), test.ShouldBeTrue)

	atEnd, err := start.NLerp(end, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atEnd.ApproxEqual(end, 1e-12), test.ShouldBeTrue)

	half, err := start.NLerp(end, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, half.Norm(), test.ShouldAlmostEqual, 1)

	// the sign flip picks the short way around even when end is negated
	negEnd := end
	negEnd.q.Real, negEnd.q.Imag, negEnd.q.Jmag, negEnd.q.Kmag =
		-end.q.Real, -end.q.Imag, -end.q.Jmag, -end.q.Kmag
	viaNeg, err := start.NLerp(negEnd, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, viaNeg.ApproxEqual(half, 1e-12), test.ShouldBeTrue)
}

func TestSLerp(t *testing.T) {
	start := NewIdentityQuaternion(world)
	end, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 1), math.Pi/2)
	test.That(t, err, test.ShouldBeNil)

	atStart, err := start.SLerp(end, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atStart.ApproxEqual(start, 1e-12), test.ShouldBeTrue)

	atEnd, err := start.SLerp(end, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atEnd.ApproxEqual(end, 1e-12), test.ShouldBeTrue)

	// halfway between identity and a 90 degree turn is a 45 degree turn
	half, err := start.SLerp(end, 0.5)
	test.That(t, err, test.ShouldBeNil)
	want, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 1), math.Pi/4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, half.ApproxEqual(want, 1e-12), test.ShouldBeTrue)

	// near-parallel rotations take the nlerp fallback without blowing up
	nearEnd, err := QuatFromAxisAngle(NewDir3(world, 0, 0, 1), 1e-4)
	test.That(t, err, test.ShouldBeNil)
	between, err := start.SLerp(nearEnd, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, between.Norm(), test.ShouldAlmostEqual, 1)
}

func TestQuatRotationMatrixRoundTrip(t *testing.T) {
	// one fixture per branch of the trace algorithm
	cases := []struct {
		name       string
		x, y, z, w float64
	}{
		{"wDominant", 0.1, 0.2, 0.3, 0.9},
		{"xDominant", 0.9, 0.1, 0.2, 0.1},
		{"yDominant", 0.1, 0.9, 0.2, 0.1},
		{"zDominant", 0.1, 0.2, 0.9, 0.1},
	}
	v := NewDelta3(camera, meters, 1, 2, 3)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NewQuaternion(world, camera, tc.x, tc.y, tc.z, tc.w)
			test.That(t, err, test.ShouldBeNil)
			q, err = q.Normalize()
			test.That(t, err, test.ShouldBeNil)

			m := Mat4FromQuaternion(q)
			recovered, err := QuatFromRotationMatrix(m)
			test.That(t, err, test.ShouldBeNil)

			// sign may flip; compare rotation effect, not raw components
			want, err := q.RotateDelta3(v)
			test.That(t, err, test.ShouldBeNil)
			got, err := recovered.RotateDelta3(v)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.ApproxEqual(want, 1e-12), test.ShouldBeTrue)
		})
	}
}

func TestQuatFromRotationMatrixValidation(t *testing.T) {
	scale := Mat4FromScale(world, camera, 2, 2, 2)
	_, err := QuatFromRotationMatrix(scale)
	test.That(t, err, test.ShouldWrap, ErrInvalidRotationBasis)

	// the unchecked variant still returns a normalized quaternion
	q := QuatFromRotationMatrixUnchecked(scale)
	test.That(t, q.Norm(), test.ShouldAlmostEqual, 1)

	// a left-handed basis (determinant -1) is rejected too
	mirror := Mat4FromScale(world, camera, -1, 1, 1)
	_, err = QuatFromRotationMatrix(mirror)
	test.That(t, err, test.ShouldWrap, ErrInvalidRotationBasis)
}
