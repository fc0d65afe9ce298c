package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/hexbotics/framemath/frames"
	"github.com/hexbotics/framemath/utils"
)

// basisEpsilon is the tolerance for the orthonormal-basis and rigidity checks.
// Like normEpsilon it is absolute, not scale-invariant.
const basisEpsilon = 1e-8

// Mat4 is a column-major 4x4 affine transform mapping values expressed in From
// into To. Unit is the unit of the translation column; pure linear transforms
// (zero translation) carry Unitless.
type Mat4 struct {
	m    mgl64.Mat4
	To   frames.FrameTag
	From frames.FrameTag
	Unit frames.UnitTag
}

// ProjectionMat4 is a perspective projection. It shares Mat4's storage layout
// but is not an affine transform: it is not rigidly invertible and its output
// requires a perspective divide.
type ProjectionMat4 struct {
	m    mgl64.Mat4
	To   frames.FrameTag
	From frames.FrameTag
}

// NewMat4 builds a transform between two distinct frames from exactly 16
// column-major values, failing with ErrInvalidLength on any other count and
// ErrIdenticalFrames on equal tags.
func NewMat4(to, from frames.FrameTag, unit frames.UnitTag, values []float64) (*Mat4, error) {
	if len(values) != 16 {
		return nil, NewInvalidLengthError(len(values))
	}
	if err := frames.CheckDistinct(to, from); err != nil {
		return nil, err
	}
	var m mgl64.Mat4
	copy(m[:], values)
	return &Mat4{m, to, from, unit}, nil
}

// NewIdentityMat4 returns the identity transform within a single frame.
func NewIdentityMat4(frame frames.FrameTag, unit frames.UnitTag) *Mat4 {
	return &Mat4{mgl64.Ident4(), frame, frame, unit}
}

// Mat4FromTranslation returns a transform that translates by the given
// displacement, which must be expressed in the To frame.
func Mat4FromTranslation(to, from frames.FrameTag, translation Delta3) *Mat4 {
	frames.MustMatchFrames(to, translation.Frame)
	m := mgl64.Ident4()
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
	return &Mat4{m, to, from, translation.Unit}
}

// Mat4FromScale returns a diagonal scale transform. The translation is zero,
// so the matrix is linear and carries the dimensionless unit.
func Mat4FromScale(to, from frames.FrameTag, sx, sy, sz float64) *Mat4 {
	m := mgl64.Ident4()
	m.Set(0, 0, sx)
	m.Set(1, 1, sy)
	m.Set(2, 2, sz)
	return &Mat4{m, to, from, frames.Unitless}
}

// Mat4FromQuaternion expands the rotation into its 3x3 matrix form. The result
// is linear (zero translation, dimensionless unit) and carries the
// quaternion's frame tags.
func Mat4FromQuaternion(q Quaternion) *Mat4 {
	m := mgl64.Ident4()
	setRotationBlock(&m, q, 1, 1, 1)
	return &Mat4{m, q.To, q.From, frames.Unitless}
}

// Mat4FromRigidTransform combines a rotation with a translation expressed in
// the rotation's To frame.
func Mat4FromRigidTransform(rotation Quaternion, translation Delta3) *Mat4 {
	frames.MustMatchFrames(rotation.To, translation.Frame)
	m := mgl64.Ident4()
	setRotationBlock(&m, rotation, 1, 1, 1)
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
	return &Mat4{m, rotation.To, rotation.From, translation.Unit}
}

// Mat4FromTRS builds translate ∘ rotate ∘ scale: the scale acts on From-frame
// axes before the rotation carries them into To, where the translation is
// applied last.
func Mat4FromTRS(rotation Quaternion, translation Delta3, sx, sy, sz float64) *Mat4 {
	frames.MustMatchFrames(rotation.To, translation.Frame)
	m := mgl64.Ident4()
	setRotationBlock(&m, rotation, sx, sy, sz)
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
	return &Mat4{m, rotation.To, rotation.From, translation.Unit}
}

// setRotationBlock writes the quaternion's 3x3 expansion into m with each
// basis column scaled by the matching scale factor.
func setRotationBlock(m *mgl64.Mat4, q Quaternion, sx, sy, sz float64) {
	x, y, z, w := q.q.Imag, q.q.Jmag, q.q.Kmag, q.q.Real
	m.Set(0, 0, (1-2*(y*y+z*z))*sx)
	m.Set(1, 0, (2*(x*y+z*w))*sx)
	m.Set(2, 0, (2*(x*z-y*w))*sx)
	m.Set(0, 1, (2*(x*y-z*w))*sy)
	m.Set(1, 1, (1-2*(x*x+z*z))*sy)
	m.Set(2, 1, (2*(y*z+x*w))*sy)
	m.Set(0, 2, (2*(x*z+y*w))*sz)
	m.Set(1, 2, (2*(y*z-x*w))*sz)
	m.Set(2, 2, (1-2*(x*x+y*y))*sz)
}

// At returns the element at the given row and column.
func (m *Mat4) At(row, col int) float64 {
	return m.m.At(row, col)
}

// Values returns the 16 elements in column-major order.
func (m *Mat4) Values() [16]float64 {
	return [16]float64(m.m)
}

// IsLinear reports whether the translation column is exactly zero.
func (m *Mat4) IsLinear() bool {
	return m.m.At(0, 3) == 0 && m.m.At(1, 3) == 0 && m.m.At(2, 3) == 0
}

// Translation returns the translation column as a To-frame displacement.
func (m *Mat4) Translation() Delta3 {
	return NewDelta3(m.To, m.Unit, m.m.At(0, 3), m.m.At(1, 3), m.m.At(2, 3))
}

// ComposeMat4 returns outer · inner: inner is applied first. The frames must
// chain, outer.From == inner.To, and the translation units must agree (a
// dimensionless operand defers to the other side's unit).
func ComposeMat4(outer, inner *Mat4) *Mat4 {
	frames.MustMatchFrames(outer.From, inner.To)
	return &Mat4{outer.m.Mul4(inner.m), outer.To, inner.From, combineUnits(outer.Unit, inner.Unit)}
}

func combineUnits(a, b frames.UnitTag) frames.UnitTag {
	if a == frames.Unitless {
		return b
	}
	if b != frames.Unitless {
		frames.MustMatchUnits(a, b)
	}
	return a
}

// InvertRigid inverts a rigid transform by transposing the rotation block and
// rotating the negated translation, after validating rigidity
// (ErrNotRigidTransform otherwise).
func (m *Mat4) InvertRigid() (*Mat4, error) {
	if err := multierr.Combine(m.checkRotationBasis(), m.checkAffineRow()); err != nil {
		return nil, errors.Wrap(ErrNotRigidTransform, err.Error())
	}
	return m.InvertRigidUnchecked(), nil
}

// InvertRigidUnchecked applies the rigid-inverse formula unconditionally; for
// a non-rigid input the result is silently wrong.
func (m *Mat4) InvertRigidUnchecked() *Mat4 {
	inv := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			inv.Set(row, col, m.m.At(col, row))
		}
	}
	tx, ty, tz := m.m.At(0, 3), m.m.At(1, 3), m.m.At(2, 3)
	for row := 0; row < 3; row++ {
		inv.Set(row, 3, -(inv.At(row, 0)*tx + inv.At(row, 1)*ty + inv.At(row, 2)*tz))
	}
	return &Mat4{inv, m.From, m.To, m.Unit}
}

// NormalMatrix returns the inverse-transpose of the linear block, the
// transform that carries surface normals correctly under non-uniform scale.
// It fails with ErrSingularTransform when the determinant is exactly zero.
func (m *Mat4) NormalMatrix() (*Mat4, error) {
	if m.linearDeterminant() == 0 {
		return nil, ErrSingularTransform
	}
	return m.NormalMatrixUnchecked(), nil
}

// NormalMatrixUnchecked divides by the determinant unconditionally; a singular
// block yields Inf/NaN entries.
func (m *Mat4) NormalMatrixUnchecked() *Mat4 {
	a, b, c := m.m.At(0, 0), m.m.At(0, 1), m.m.At(0, 2)
	d, e, f := m.m.At(1, 0), m.m.At(1, 1), m.m.At(1, 2)
	g, h, i := m.m.At(2, 0), m.m.At(2, 1), m.m.At(2, 2)
	det := m.linearDeterminant()

	// Cofactor matrix over det; inverse-transpose = adjugate-transpose-transpose,
	// so the cofactors land untransposed.
	out := mgl64.Ident4()
	out.Set(0, 0, (e*i-f*h)/det)
	out.Set(0, 1, (f*g-d*i)/det)
	out.Set(0, 2, (d*h-e*g)/det)
	out.Set(1, 0, (c*h-b*i)/det)
	out.Set(1, 1, (a*i-c*g)/det)
	out.Set(1, 2, (b*g-a*h)/det)
	out.Set(2, 0, (b*f-c*e)/det)
	out.Set(2, 1, (c*d-a*f)/det)
	out.Set(2, 2, (a*e-b*d)/det)
	return &Mat4{out, m.To, m.From, frames.Unitless}
}

func (m *Mat4) linearDeterminant() float64 {
	a, b, c := m.m.At(0, 0), m.m.At(0, 1), m.m.At(0, 2)
	d, e, f := m.m.At(1, 0), m.m.At(1, 1), m.m.At(1, 2)
	g, h, i := m.m.At(2, 0), m.m.At(2, 1), m.m.At(2, 2)
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// checkRotationBasis validates that the linear block is a finite, right-handed
// orthonormal basis, aggregating every failed check.
func (m *Mat4) checkRotationBasis() error {
	var err error
	cols := [3][3]float64{}
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			v := m.m.At(row, col)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				err = multierr.Append(err, errors.Errorf("entry (%d,%d) is not finite", row, col))
			}
			cols[col][row] = v
		}
	}
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		lenSq := dot3(cols[i], cols[i])
		if !utils.Float64AlmostEqual(lenSq, 1, basisEpsilon) {
			err = multierr.Append(err, errors.Errorf("column %d has squared length %v", i, lenSq))
		}
		for j := i + 1; j < 3; j++ {
			if d := dot3(cols[i], cols[j]); !utils.Float64AlmostEqual(d, 0, basisEpsilon) {
				err = multierr.Append(err, errors.Errorf("columns %d and %d are not orthogonal (dot %v)", i, j, d))
			}
		}
	}
	if det := m.linearDeterminant(); !utils.Float64AlmostEqual(det, 1, basisEpsilon) {
		err = multierr.Append(err, errors.Errorf("determinant %v is not 1", det))
	}
	return err
}

// checkAffineRow validates that the bottom row is [0,0,0,1] within tolerance.
func (m *Mat4) checkAffineRow() error {
	var err error
	for col := 0; col < 4; col++ {
		want := 0.0
		if col == 3 {
			want = 1
		}
		if !utils.Float64AlmostEqual(m.m.At(3, col), want, basisEpsilon) {
			err = multierr.Append(err, errors.Errorf("affine row entry %d is %v, want %v", col, m.m.At(3, col), want))
		}
	}
	return err
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// TransformPoint3 applies the full transform, translation included, to a
// From-frame point, yielding a To-frame point.
func (m *Mat4) TransformPoint3(p Point3) Point3 {
	frames.MustMatchFrames(m.From, p.Frame)
	if m.Unit != frames.Unitless {
		frames.MustMatchUnits(m.Unit, p.Unit)
	}
	x := m.m.At(0, 0)*p.X + m.m.At(0, 1)*p.Y + m.m.At(0, 2)*p.Z + m.m.At(0, 3)
	y := m.m.At(1, 0)*p.X + m.m.At(1, 1)*p.Y + m.m.At(1, 2)*p.Z + m.m.At(1, 3)
	z := m.m.At(2, 0)*p.X + m.m.At(2, 1)*p.Y + m.m.At(2, 2)*p.Z + m.m.At(2, 3)
	return NewPoint3(m.To, p.Unit, x, y, z)
}

// TransformDelta3 applies only the linear block to a From-frame displacement;
// displacements are differences of points, so the translation cancels.
func (m *Mat4) TransformDelta3(v Delta3) Delta3 {
	frames.MustMatchFrames(m.From, v.Frame)
	x, y, z := m.linearApply(v.X, v.Y, v.Z)
	return NewDelta3(m.To, v.Unit, x, y, z)
}

// TransformDirection3 applies only the linear block to a From-frame direction.
func (m *Mat4) TransformDirection3(d Dir3) Dir3 {
	frames.MustMatchFrames(m.From, d.Frame)
	x, y, z := m.linearApply(d.X, d.Y, d.Z)
	return NewDir3(m.To, x, y, z)
}

func (m *Mat4) linearApply(x, y, z float64) (float64, float64, float64) {
	return m.m.At(0, 0)*x + m.m.At(0, 1)*y + m.m.At(0, 2)*z,
		m.m.At(1, 0)*x + m.m.At(1, 1)*y + m.m.At(1, 2)*z,
		m.m.At(2, 0)*x + m.m.At(2, 1)*y + m.m.At(2, 2)*z
}

// NewPerspective builds a right-handed perspective projection with [-1,1]
// depth range, mapping From (view space, camera looking down -Z) into To
// (clip/NDC space). It validates 0 < fov < pi, aspect > 0, and 0 < near < far,
// failing with ErrInvalidProjectionParams.
func NewPerspective(to, from frames.FrameTag, fov, aspect, near, far float64) (*ProjectionMat4, error) {
	if err := frames.CheckDistinct(to, from); err != nil {
		return nil, err
	}
	switch {
	case !(fov > 0 && fov < math.Pi):
		return nil, errors.Wrapf(ErrInvalidProjectionParams, "fov %v must be in (0, pi)", fov)
	case !(aspect > 0):
		return nil, errors.Wrapf(ErrInvalidProjectionParams, "aspect %v must be positive", aspect)
	case !(near > 0 && near < far):
		return nil, errors.Wrapf(ErrInvalidProjectionParams, "need 0 < near < far, got near %v far %v", near, far)
	}
	return NewPerspectiveUnchecked(to, from, fov, aspect, near, far), nil
}

// NewPerspectiveUnchecked builds the projection without validating parameters;
// out-of-range input yields a matrix with Inf/NaN entries.
func NewPerspectiveUnchecked(to, from frames.FrameTag, fov, aspect, near, far float64) *ProjectionMat4 {
	focal := 1 / math.Tan(fov/2)
	var m mgl64.Mat4
	m.Set(0, 0, focal/aspect)
	m.Set(1, 1, focal)
	m.Set(2, 2, (far+near)/(near-far))
	m.Set(2, 3, 2*far*near/(near-far))
	m.Set(3, 2, -1)
	return &ProjectionMat4{m, to, from}
}

// At returns the element at the given row and column.
func (p *ProjectionMat4) At(row, col int) float64 {
	return p.m.At(row, col)
}

// ProjectPoint3 applies the projection to a From-frame point and divides by
// the homogeneous w, failing with ErrUndefinedPerspectiveDivide when w is
// exactly zero. The result is a dimensionless NDC point in the To frame.
func (p *ProjectionMat4) ProjectPoint3(point Point3) (Point3, error) {
	x, y, z, w := p.apply(point)
	if w == 0 {
		return Point3{}, ErrUndefinedPerspectiveDivide
	}
	return NewPoint3(p.To, frames.Unitless, x/w, y/w, z/w), nil
}

// ProjectPoint3Unchecked divides unconditionally; w == 0 yields Inf/NaN
// components.
func (p *ProjectionMat4) ProjectPoint3Unchecked(point Point3) Point3 {
	x, y, z, w := p.apply(point)
	return NewPoint3(p.To, frames.Unitless, x/w, y/w, z/w)
}

func (p *ProjectionMat4) apply(point Point3) (x, y, z, w float64) {
	frames.MustMatchFrames(p.From, point.Frame)
	x = p.m.At(0, 0)*point.X + p.m.At(0, 1)*point.Y + p.m.At(0, 2)*point.Z + p.m.At(0, 3)
	y = p.m.At(1, 0)*point.X + p.m.At(1, 1)*point.Y + p.m.At(1, 2)*point.Z + p.m.At(1, 3)
	z = p.m.At(2, 0)*point.X + p.m.At(2, 1)*point.Y + p.m.At(2, 2)*point.Z + p.m.At(2, 3)
	w = p.m.At(3, 0)*point.X + p.m.At(3, 1)*point.Y + p.m.At(3, 2)*point.Z + p.m.At(3, 3)
	return x, y, z, w
}

// Mat4LookAt builds the view transform for a camera at eye looking at target,
// mapping the eye/target frame into the to frame. The camera looks down its
// -Z axis with +Y along the (re-orthogonalized) up direction. Validation
// order: eye and target must differ, up must be non-zero, and up must not be
// parallel to the viewing direction; each failure is ErrDegenerateLookAt.
func Mat4LookAt(to frames.FrameTag, eye, target Point3, up Dir3) (*Mat4, error) {
	frames.MustMatchFrames(eye.Frame, up.Frame)
	forwardDelta := target.Sub(eye)
	forward, err := forwardDelta.Normalize()
	if err != nil {
		return nil, errors.Wrap(ErrDegenerateLookAt, "eye and target coincide")
	}
	if _, err := up.Normalize(); err != nil {
		return nil, errors.Wrap(ErrDegenerateLookAt, "up vector is zero")
	}
	right, err := forward.Cross(up).Normalize()
	if err != nil {
		return nil, errors.Wrap(ErrDegenerateLookAt, "up is parallel to the viewing direction")
	}
	return lookAt(to, eye, forward, right), nil
}

// Mat4LookAtUnchecked builds the view transform without degeneracy checks;
// degenerate input yields NaN entries.
func Mat4LookAtUnchecked(to frames.FrameTag, eye, target Point3, up Dir3) *Mat4 {
	frames.MustMatchFrames(eye.Frame, up.Frame)
	forward := target.Sub(eye).NormalizeUnchecked()
	right := forward.Cross(up).NormalizeUnchecked()
	return lookAt(to, eye, forward, right)
}

func lookAt(to frames.FrameTag, eye Point3, forward, right Dir3) *Mat4 {
	trueUp := right.Cross(forward)
	m := mgl64.Ident4()
	m.Set(0, 0, right.X)
	m.Set(0, 1, right.Y)
	m.Set(0, 2, right.Z)
	m.Set(1, 0, trueUp.X)
	m.Set(1, 1, trueUp.Y)
	m.Set(1, 2, trueUp.Z)
	m.Set(2, 0, -forward.X)
	m.Set(2, 1, -forward.Y)
	m.Set(2, 2, -forward.Z)
	m.Set(0, 3, -(right.X*eye.X + right.Y*eye.Y + right.Z*eye.Z))
	m.Set(1, 3, -(trueUp.X*eye.X + trueUp.Y*eye.Y + trueUp.Z*eye.Z))
	m.Set(2, 3, forward.X*eye.X+forward.Y*eye.Y+forward.Z*eye.Z)
	return &Mat4{m, to, eye.Frame, eye.Unit}
}
