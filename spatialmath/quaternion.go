package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/hexbotics/framemath/frames"
	"github.com/hexbotics/framemath/utils"
)

// slerpParallelCosine is the |cos| above which SLerp falls back to NLerp; the
// 1/sin(theta) weights blow up as the rotations approach parallel.
const slerpParallelCosine = 0.9995

// Quaternion is a rotation carrying values expressed in From into To. To and
// From are equal only for rotations built by the single-frame constructors
// (identity, axis-angle, euler).
type Quaternion struct {
	q    quat.Number
	To   frames.FrameTag
	From frames.FrameTag
}

// NewQuaternion builds a rotation between two distinct frames from raw
// components, failing with ErrIdenticalFrames when the tags are equal.
func NewQuaternion(to, from frames.FrameTag, x, y, z, w float64) (Quaternion, error) {
	if err := frames.CheckDistinct(to, from); err != nil {
		return Quaternion{}, err
	}
	return Quaternion{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}, to, from}, nil
}

// NewIdentityQuaternion returns the no-op rotation within a single frame.
func NewIdentityQuaternion(frame frames.FrameTag) Quaternion {
	return Quaternion{quat.Number{Real: 1}, frame, frame}
}

// X returns the i component.
func (q Quaternion) X() float64 { return q.q.Imag }

// Y returns the j component.
func (q Quaternion) Y() float64 { return q.q.Jmag }

// Z returns the k component.
func (q Quaternion) Z() float64 { return q.q.Kmag }

// W returns the scalar component.
func (q Quaternion) W() float64 { return q.q.Real }

// Norm returns the quaternion's length.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.q)
}

// NormSquared returns the quaternion's squared length.
func (q Quaternion) NormSquared() float64 {
	return q.q.Real*q.q.Real + q.q.Imag*q.q.Imag + q.q.Jmag*q.q.Jmag + q.q.Kmag*q.q.Kmag
}

// Normalize returns the unit quaternion with q's rotation, failing with
// ErrDegenerateQuaternion when the norm is at or below 1e-14.
func (q Quaternion) Normalize() (Quaternion, error) {
	norm := q.Norm()
	if norm <= normEpsilon {
		return Quaternion{}, NewDegenerateQuaternionError(norm)
	}
	return Quaternion{quat.Scale(1/norm, q.q), q.To, q.From}, nil
}

// NormalizeUnchecked divides by the norm unconditionally.
func (q Quaternion) NormalizeUnchecked() Quaternion {
	return Quaternion{quat.Scale(1/q.Norm(), q.q), q.To, q.From}
}

// Inverse returns the rotation mapping To back into From, failing with
// ErrDegenerateQuaternion when the squared norm is at or below (1e-14)².
func (q Quaternion) Inverse() (Quaternion, error) {
	normSq := q.NormSquared()
	if normSq <= normEpsilon*normEpsilon {
		return Quaternion{}, NewDegenerateQuaternionError(math.Sqrt(normSq))
	}
	return Quaternion{quat.Scale(1/normSq, quat.Conj(q.q)), q.From, q.To}, nil
}

// InverseUnchecked divides the conjugate by the squared norm unconditionally.
func (q Quaternion) InverseUnchecked() Quaternion {
	return Quaternion{quat.Scale(1/q.NormSquared(), quat.Conj(q.q)), q.From, q.To}
}

// ComposeQuats returns outer ∘ inner via the Hamilton product: inner is applied
// first. The frames must chain, outer.From == inner.To.
func ComposeQuats(outer, inner Quaternion) Quaternion {
	frames.MustMatchFrames(outer.From, inner.To)
	return Quaternion{quat.Mul(outer.q, inner.q), outer.To, inner.From}
}

// RotateDelta3 rotates a displacement expressed in From into To. The
// quaternion is normalized first, failing with ErrDegenerateQuaternion when
// degenerate.
func (q Quaternion) RotateDelta3(v Delta3) (Delta3, error) {
	frames.MustMatchFrames(q.From, v.Frame)
	unit, err := q.Normalize()
	if err != nil {
		return Delta3{}, err
	}
	return Delta3{rotateVector(unit.q, v.Vector), q.To, v.Unit}, nil
}

// RotateDelta3Unchecked rotates without normalizing q; a non-unit quaternion
// scales as well as rotates.
func (q Quaternion) RotateDelta3Unchecked(v Delta3) Delta3 {
	frames.MustMatchFrames(q.From, v.Frame)
	return Delta3{rotateVector(q.q, v.Vector), q.To, v.Unit}
}

// RotateDir3 rotates a direction expressed in From into To.
func (q Quaternion) RotateDir3(d Dir3) (Dir3, error) {
	rotated, err := q.RotateDelta3(d.Delta())
	if err != nil {
		return Dir3{}, err
	}
	return Dir3{rotated.Vector, rotated.Frame}, nil
}

// RotateDir3Unchecked rotates a direction without normalizing q.
func (q Quaternion) RotateDir3Unchecked(d Dir3) Dir3 {
	rotated := q.RotateDelta3Unchecked(d.Delta())
	return Dir3{rotated.Vector, rotated.Frame}
}

// rotateVector applies the double-cross-product form of q·v·q⁻¹:
// t = 2·cross(q.xyz, v); v' = v + w·t + cross(q.xyz, t). Equivalent to the
// quaternion sandwich for unit q without building intermediate quaternions.
func rotateVector(q quat.Number, v r3.Vector) r3.Vector {
	axis := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	t := axis.Cross(v).Mul(2)
	return v.Add(t.Mul(q.Real)).Add(axis.Cross(t))
}

// QuatFromAxisAngle returns the rotation of angle radians about the given
// axis, within the axis's frame. The axis is normalized first, failing with
// ErrDegenerateVector on zero length.
func QuatFromAxisAngle(axis Dir3, angle float64) (Quaternion, error) {
	unit, err := axis.Normalize()
	if err != nil {
		return Quaternion{}, err
	}
	return axisAngleQuat(unit, angle), nil
}

// QuatFromAxisAngleUnchecked normalizes the axis without a degeneracy guard.
func QuatFromAxisAngleUnchecked(axis Dir3, angle float64) Quaternion {
	return axisAngleQuat(axis.NormalizeUnchecked(), angle)
}

func axisAngleQuat(unit Dir3, angle float64) Quaternion {
	sinHalf := math.Sin(angle / 2)
	return Quaternion{
		q: quat.Number{
			Real: math.Cos(angle / 2),
			Imag: unit.X * sinHalf,
			Jmag: unit.Y * sinHalf,
			Kmag: unit.Z * sinHalf,
		},
		To:   unit.Frame,
		From: unit.Frame,
	}
}

// QuatFromEuler composes per-axis rotations in the order given: order[0] is
// the innermost, first-applied rotation. order is a sequence of the characters
// X, Y, Z (repeats allowed, e.g. "ZXZ"); anything else fails with
// ErrInvalidEulerOrder. The x, y, z angles in radians are bound to their axis
// letters, not to positions in the order string. The result is normalized.
func QuatFromEuler(frame frames.FrameTag, x, y, z float64, order string) (Quaternion, error) {
	result := NewIdentityQuaternion(frame)
	for _, axis := range order {
		var step Quaternion
		switch axis {
		case 'X', 'x':
			step = axisAngleQuat(NewDir3(frame, 1, 0, 0), x)
		case 'Y', 'y':
			step = axisAngleQuat(NewDir3(frame, 0, 1, 0), y)
		case 'Z', 'z':
			step = axisAngleQuat(NewDir3(frame, 0, 0, 1), z)
		default:
			return Quaternion{}, errors.Wrapf(ErrInvalidEulerOrder, "got %q", order)
		}
		result = ComposeQuats(step, result)
	}
	return result.Normalize()
}

// NLerp interpolates between two rotations by normalized linear blending,
// flipping end's sign first when the rotations are on opposite hemispheres so
// the blend takes the shortest path.
func (q Quaternion) NLerp(end Quaternion, t float64) (Quaternion, error) {
	frames.MustMatchFrames(q.To, end.To)
	frames.MustMatchFrames(q.From, end.From)
	target := end.q
	if quatDot(q.q, target) < 0 {
		target = quat.Scale(-1, target)
	}
	blended := quat.Add(quat.Scale(1-t, q.q), quat.Scale(t, target))
	return Quaternion{blended, q.To, q.From}.Normalize()
}

// SLerp interpolates between two rotations at constant angular velocity. Near
// parallel rotations (|cosine| > 0.9995) it falls back to NLerp to avoid the
// 1/sin(theta) blow-up.
func (q Quaternion) SLerp(end Quaternion, t float64) (Quaternion, error) {
	frames.MustMatchFrames(q.To, end.To)
	frames.MustMatchFrames(q.From, end.From)
	target := end.q
	cosine := quatDot(q.q, target)
	if cosine < 0 {
		target = quat.Scale(-1, target)
		cosine = -cosine
	}
	if cosine > slerpParallelCosine {
		return q.NLerp(Quaternion{target, end.To, end.From}, t)
	}
	theta := math.Acos(utils.ClampFloat(cosine, -1, 1))
	sinTheta := math.Sin(theta)
	wStart := math.Sin((1-t)*theta) / sinTheta
	wEnd := math.Sin(t*theta) / sinTheta
	blended := quat.Add(quat.Scale(wStart, q.q), quat.Scale(wEnd, target))
	return Quaternion{blended, q.To, q.From}, nil
}

func quatDot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// QuatFromRotationMatrix recovers the rotation from the matrix's upper-left
// 3x3 block via the four-branch trace algorithm, after validating that the
// block is a right-handed orthonormal basis (ErrInvalidRotationBasis
// otherwise). The result carries the matrix's frame tags.
func QuatFromRotationMatrix(m *Mat4) (Quaternion, error) {
	if err := m.checkRotationBasis(); err != nil {
		return Quaternion{}, errors.Wrap(ErrInvalidRotationBasis, err.Error())
	}
	return quatFromBasis(m), nil
}

// QuatFromRotationMatrixUnchecked skips basis validation; the result is always
// normalized, even for non-rotation input (where it is simply wrong).
func QuatFromRotationMatrixUnchecked(m *Mat4) Quaternion {
	return quatFromBasis(m).NormalizeUnchecked()
}

// quatFromBasis reads the 3x3 linear block (column-major) and selects among
// the w-dominant and three diagonal-dominant branches.
func quatFromBasis(m *Mat4) Quaternion {
	m00, m01, m02 := m.m.At(0, 0), m.m.At(0, 1), m.m.At(0, 2)
	m10, m11, m12 := m.m.At(1, 0), m.m.At(1, 1), m.m.At(1, 2)
	m20, m21, m22 := m.m.At(2, 0), m.m.At(2, 1), m.m.At(2, 2)

	var x, y, z, w float64
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(1+trace)
		w = s / 4
		x = (m21 - m12) / s
		y = (m02 - m20) / s
		z = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		w = (m21 - m12) / s
		x = s / 4
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = s / 4
		z = (m12 + m21) / s
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = s / 4
	}
	return Quaternion{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}, m.To, m.From}
}

// AxisAngle returns the rotation's unit axis (in the From frame) and angle in
// radians. The identity rotation reports the +Z axis with zero angle.
func (q Quaternion) AxisAngle() (Dir3, float64) {
	unit := q.NormalizeUnchecked()
	w := utils.ClampFloat(unit.q.Real, -1, 1)
	angle := 2 * math.Acos(w)
	sinHalf := math.Sqrt(1 - w*w)
	if sinHalf < 1e-8 {
		return NewDir3(q.From, 0, 0, 1), 0
	}
	return NewDir3(q.From, unit.q.Imag/sinHalf, unit.q.Jmag/sinHalf, unit.q.Kmag/sinHalf), angle
}

// EulerAngles returns the rotation's roll (about X), pitch (about Y), and yaw
// (about Z) in radians, with roll applied first: the inverse of
// QuatFromEuler(frame, roll, pitch, yaw, "XYZ").
func (q Quaternion) EulerAngles() (roll, pitch, yaw float64) {
	unit := q.NormalizeUnchecked()
	x, y, z, w := unit.q.Imag, unit.q.Jmag, unit.q.Kmag, unit.q.Real
	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch = math.Asin(utils.ClampFloat(2*(w*y-z*x), -1, 1))
	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return roll, pitch, yaw
}

// ApproxEqual reports componentwise agreement within epsilon. Both frame tags
// must match; the comparison is on raw components, so q and −q compare unequal
// even though they rotate identically.
func (q Quaternion) ApproxEqual(other Quaternion, epsilon float64) bool {
	frames.MustMatchFrames(q.To, other.To)
	frames.MustMatchFrames(q.From, other.From)
	return utils.Float64AlmostEqual(q.q.Real, other.q.Real, epsilon) &&
		utils.Float64AlmostEqual(q.q.Imag, other.q.Imag, epsilon) &&
		utils.Float64AlmostEqual(q.q.Jmag, other.q.Jmag, epsilon) &&
		utils.Float64AlmostEqual(q.q.Kmag, other.q.Kmag, epsilon)
}
