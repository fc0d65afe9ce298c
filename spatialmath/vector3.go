// Package spatialmath implements the frame- and unit-tagged geometry algebra:
// displacement/point/direction vectors, quaternion rotations, 4x4 affine and
// projective transforms, and a memoizing TRS builder. Every value carries the
// coordinate frame (and, where meaningful, the physical unit) it is expressed
// in; the tags are inert labels checked at API boundaries and never converted.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/hexbotics/framemath/frames"
	"github.com/hexbotics/framemath/utils"
)

// normEpsilon is the degeneracy floor for vector and quaternion lengths. It is
// an absolute threshold, not scale-invariant: coordinates much smaller than 1
// may be flagged degenerate, coordinates much larger may mask degeneracy.
const normEpsilon = 1e-14

// Delta3 is a displacement vector in a frame: the difference of two points, or
// a translation to apply to one.
type Delta3 struct {
	r3.Vector
	Frame frames.FrameTag
	Unit  frames.UnitTag
}

// Point3 is an absolute location in a frame. Points cannot be summed with each
// other; they differ by a Delta3 and translate by a Delta3.
type Point3 struct {
	r3.Vector
	Frame frames.FrameTag
	Unit  frames.UnitTag
}

// Dir3 is a dimensionless displacement used for axes, normals, and viewing
// directions. Construction does not enforce unit length; operations that need
// a unit vector normalize internally or reject degenerate input.
type Dir3 struct {
	r3.Vector
	Frame frames.FrameTag
}

// NewDelta3 returns a displacement in the given frame and unit. Tag-only: no
// validation is performed.
func NewDelta3(frame frames.FrameTag, unit frames.UnitTag, x, y, z float64) Delta3 {
	return Delta3{r3.Vector{X: x, Y: y, Z: z}, frame, unit}
}

// NewPoint3 returns a location in the given frame and unit.
func NewPoint3(frame frames.FrameTag, unit frames.UnitTag, x, y, z float64) Point3 {
	return Point3{r3.Vector{X: x, Y: y, Z: z}, frame, unit}
}

// NewDir3 returns a direction in the given frame. The components are taken
// as-is; callers needing unit length should Normalize.
func NewDir3(frame frames.FrameTag, x, y, z float64) Dir3 {
	return Dir3{r3.Vector{X: x, Y: y, Z: z}, frame}
}

// ZeroDelta3 returns the zero displacement in the given frame and unit.
func ZeroDelta3(frame frames.FrameTag, unit frames.UnitTag) Delta3 {
	return Delta3{r3.Vector{}, frame, unit}
}

// Delta returns the direction reinterpreted as a dimensionless displacement.
func (d Dir3) Delta() Delta3 {
	return Delta3{d.Vector, d.Frame, frames.Unitless}
}

// Add returns v + other. Frames and units must match.
func (v Delta3) Add(other Delta3) Delta3 {
	frames.MustMatchFrames(v.Frame, other.Frame)
	frames.MustMatchUnits(v.Unit, other.Unit)
	return Delta3{v.Vector.Add(other.Vector), v.Frame, v.Unit}
}

// Sub returns v − other. Frames and units must match.
func (v Delta3) Sub(other Delta3) Delta3 {
	frames.MustMatchFrames(v.Frame, other.Frame)
	frames.MustMatchUnits(v.Unit, other.Unit)
	return Delta3{v.Vector.Sub(other.Vector), v.Frame, v.Unit}
}

// Neg returns −v.
func (v Delta3) Neg() Delta3 {
	return Delta3{v.Vector.Mul(-1), v.Frame, v.Unit}
}

// Scale returns v multiplied by a dimensionless factor.
func (v Delta3) Scale(factor float64) Delta3 {
	return Delta3{v.Vector.Mul(factor), v.Frame, v.Unit}
}

// Translate returns the point moved by the given displacement. Frames and
// units must match.
func (p Point3) Translate(d Delta3) Point3 {
	frames.MustMatchFrames(p.Frame, d.Frame)
	frames.MustMatchUnits(p.Unit, d.Unit)
	return Point3{p.Vector.Add(d.Vector), p.Frame, p.Unit}
}

// TranslateBack returns the point moved against the given displacement.
func (p Point3) TranslateBack(d Delta3) Point3 {
	return p.Translate(d.Neg())
}

// Sub returns p − other as a displacement. Frames and units must match.
func (p Point3) Sub(other Point3) Delta3 {
	frames.MustMatchFrames(p.Frame, other.Frame)
	frames.MustMatchUnits(p.Unit, other.Unit)
	return Delta3{p.Vector.Sub(other.Vector), p.Frame, p.Unit}
}

// Dot returns the scalar product of two same-frame displacements. The numeric
// result is unit-free; its symbolic unit (the product of the operands') is the
// caller's to track.
func (v Delta3) Dot(other Delta3) float64 {
	frames.MustMatchFrames(v.Frame, other.Frame)
	return v.Vector.Dot(other.Vector)
}

// Cross returns the vector product of two same-frame, same-unit displacements,
// tagged with the shared unit.
func (v Delta3) Cross(other Delta3) Delta3 {
	frames.MustMatchFrames(v.Frame, other.Frame)
	frames.MustMatchUnits(v.Unit, other.Unit)
	return Delta3{v.Vector.Cross(other.Vector), v.Frame, v.Unit}
}

// LengthSquared returns dot(v, v).
func (v Delta3) LengthSquared() float64 {
	return v.Vector.Dot(v.Vector)
}

// Length returns |v|, computed hypot-style to avoid overflow on large
// components.
func (v Delta3) Length() float64 {
	return utils.Hypot3(v.X, v.Y, v.Z)
}

// DistanceDelta3 returns |a − b| for two same-frame, same-unit displacements.
func DistanceDelta3(a, b Delta3) float64 {
	frames.MustMatchFrames(a.Frame, b.Frame)
	frames.MustMatchUnits(a.Unit, b.Unit)
	return utils.Hypot3(a.X-b.X, a.Y-b.Y, a.Z-b.Z)
}

// DistancePoint3 returns the distance between two same-frame, same-unit points.
func DistancePoint3(a, b Point3) float64 {
	frames.MustMatchFrames(a.Frame, b.Frame)
	frames.MustMatchUnits(a.Unit, b.Unit)
	return utils.Hypot3(a.X-b.X, a.Y-b.Y, a.Z-b.Z)
}

// Normalize returns the unit-length direction of v, or ErrDegenerateVector
// when |v| <= 1e-14.
func (v Delta3) Normalize() (Dir3, error) {
	length := v.Length()
	if length <= normEpsilon {
		return Dir3{}, NewDegenerateVectorError(length)
	}
	return Dir3{v.Vector.Mul(1 / length), v.Frame}, nil
}

// NormalizeUnchecked divides by |v| unconditionally; a degenerate input yields
// NaN components.
func (v Delta3) NormalizeUnchecked() Dir3 {
	return Dir3{v.Vector.Mul(1 / v.Length()), v.Frame}
}

// Normalize returns the unit-length version of the direction, or
// ErrDegenerateVector when its length is at or below 1e-14.
func (d Dir3) Normalize() (Dir3, error) {
	return d.Delta().Normalize()
}

// NormalizeUnchecked divides by the direction's length unconditionally.
func (d Dir3) NormalizeUnchecked() Dir3 {
	return d.Delta().NormalizeUnchecked()
}

// Dot returns the scalar product of two same-frame directions.
func (d Dir3) Dot(other Dir3) float64 {
	frames.MustMatchFrames(d.Frame, other.Frame)
	return d.Vector.Dot(other.Vector)
}

// Cross returns the vector product of two same-frame directions.
func (d Dir3) Cross(other Dir3) Dir3 {
	frames.MustMatchFrames(d.Frame, other.Frame)
	return Dir3{d.Vector.Cross(other.Vector), d.Frame}
}

// Length returns the direction's length.
func (d Dir3) Length() float64 {
	return utils.Hypot3(d.X, d.Y, d.Z)
}

// Project returns the component of v along onto, onto·(v·onto / onto·onto),
// failing with ErrDegenerateVector when onto·onto <= (1e-14)².
func (v Delta3) Project(onto Delta3) (Delta3, error) {
	frames.MustMatchFrames(v.Frame, onto.Frame)
	ontoSq := onto.LengthSquared()
	if ontoSq <= normEpsilon*normEpsilon {
		return Delta3{}, NewDegenerateVectorError(math.Sqrt(ontoSq))
	}
	return v.ProjectUnchecked(onto), nil
}

// ProjectUnchecked divides by onto·onto unconditionally.
func (v Delta3) ProjectUnchecked(onto Delta3) Delta3 {
	frames.MustMatchFrames(v.Frame, onto.Frame)
	scale := v.Vector.Dot(onto.Vector) / onto.Vector.Dot(onto.Vector)
	return Delta3{onto.Vector.Mul(scale), v.Frame, v.Unit}
}

// Reflect mirrors v across the plane whose normal is given. The normal is
// normalized first; a degenerate normal fails with ErrDegenerateVector.
func (v Delta3) Reflect(normal Dir3) (Delta3, error) {
	frames.MustMatchFrames(v.Frame, normal.Frame)
	unit, err := normal.Normalize()
	if err != nil {
		return Delta3{}, err
	}
	return v.reflectAcross(unit), nil
}

// ReflectUnchecked mirrors v across the plane of the given normal, normalizing
// without a degeneracy guard.
func (v Delta3) ReflectUnchecked(normal Dir3) Delta3 {
	frames.MustMatchFrames(v.Frame, normal.Frame)
	return v.reflectAcross(normal.NormalizeUnchecked())
}

func (v Delta3) reflectAcross(unit Dir3) Delta3 {
	scale := 2 * v.Vector.Dot(unit.Vector)
	return Delta3{v.Vector.Sub(unit.Vector.Mul(scale)), v.Frame, v.Unit}
}

// AngleBetween returns the angle in radians between v and other, failing with
// ErrDegenerateVector when either length is at or below 1e-14.
func (v Delta3) AngleBetween(other Delta3) (float64, error) {
	frames.MustMatchFrames(v.Frame, other.Frame)
	lenV, lenO := v.Length(), other.Length()
	if lenV <= normEpsilon {
		return 0, NewDegenerateVectorError(lenV)
	}
	if lenO <= normEpsilon {
		return 0, NewDegenerateVectorError(lenO)
	}
	return angleBetween(v.Vector, other.Vector, lenV, lenO), nil
}

// AngleBetweenUnchecked divides by the lengths unconditionally.
func (v Delta3) AngleBetweenUnchecked(other Delta3) float64 {
	frames.MustMatchFrames(v.Frame, other.Frame)
	return angleBetween(v.Vector, other.Vector, v.Length(), other.Length())
}

// AngleBetween returns the angle in radians between two directions.
func (d Dir3) AngleBetween(other Dir3) (float64, error) {
	return d.Delta().AngleBetween(other.Delta())
}

func angleBetween(a, b r3.Vector, lenA, lenB float64) float64 {
	// The cosine can overshoot [-1,1] by a few ulps; acos of that is NaN.
	cosine := utils.ClampFloat(a.Dot(b)/(lenA*lenB), -1, 1)
	return math.Acos(cosine)
}

// Lerp linearly interpolates from v to end: v·(1−t) + end·t. t outside [0,1]
// extrapolates; there is no clamping.
func (v Delta3) Lerp(end Delta3, t float64) Delta3 {
	frames.MustMatchFrames(v.Frame, end.Frame)
	frames.MustMatchUnits(v.Unit, end.Unit)
	return Delta3{v.Vector.Mul(1 - t).Add(end.Vector.Mul(t)), v.Frame, v.Unit}
}

// ApproxEqual reports componentwise agreement within epsilon. Frames and units
// must match.
func (v Delta3) ApproxEqual(other Delta3, epsilon float64) bool {
	frames.MustMatchFrames(v.Frame, other.Frame)
	frames.MustMatchUnits(v.Unit, other.Unit)
	return vecAlmostEqual(v.Vector, other.Vector, epsilon)
}

// ApproxEqual reports componentwise agreement within epsilon for points.
func (p Point3) ApproxEqual(other Point3, epsilon float64) bool {
	frames.MustMatchFrames(p.Frame, other.Frame)
	frames.MustMatchUnits(p.Unit, other.Unit)
	return vecAlmostEqual(p.Vector, other.Vector, epsilon)
}

func vecAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
