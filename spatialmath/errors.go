package spatialmath

import "github.com/pkg/errors"

// Sentinel errors for every validating ("safe") operation in the package. Each
// unchecked twin never errors; it may produce NaN or Inf instead.
var (
	// ErrDegenerateVector indicates a vector whose length is at or below the
	// degeneracy floor where normalization and angle math become meaningless.
	ErrDegenerateVector = errors.New("vector is degenerate (length at or below 1e-14)")

	// ErrDegenerateQuaternion is the quaternion analog of ErrDegenerateVector.
	ErrDegenerateQuaternion = errors.New("quaternion is degenerate (norm at or below 1e-14)")

	// ErrInvalidLength indicates a matrix payload of the wrong size.
	ErrInvalidLength = errors.New("matrix payload must contain exactly 16 values")

	// ErrInvalidRotationBasis indicates a matrix whose linear block is not a
	// right-handed orthonormal rotation.
	ErrInvalidRotationBasis = errors.New("matrix is not a right-handed orthonormal rotation")

	// ErrNotRigidTransform indicates an attempt to rigid-invert a matrix whose
	// linear block is not orthonormal or whose affine row is not [0,0,0,1].
	ErrNotRigidTransform = errors.New("matrix is not a rigid transform")

	// ErrSingularTransform indicates a normal-matrix request on a linear block
	// with zero determinant.
	ErrSingularTransform = errors.New("linear block is singular")

	// ErrInvalidProjectionParams indicates out-of-range perspective parameters.
	ErrInvalidProjectionParams = errors.New("invalid perspective projection parameters")

	// ErrUndefinedPerspectiveDivide indicates a projected point whose
	// homogeneous w is exactly zero.
	ErrUndefinedPerspectiveDivide = errors.New("perspective divide is undefined (w == 0)")

	// ErrDegenerateLookAt indicates coincident eye/target, a zero up vector, or
	// an up vector parallel to the viewing direction.
	ErrDegenerateLookAt = errors.New("look-at basis is degenerate")

	// ErrInvalidEulerOrder indicates an euler order string with characters
	// outside X, Y, Z.
	ErrInvalidEulerOrder = errors.New("euler order must name axes X, Y, or Z")
)

// NewDegenerateVectorError notes the offending length.
func NewDegenerateVectorError(length float64) error {
	return errors.Wrapf(ErrDegenerateVector, "length %g", length)
}

// NewDegenerateQuaternionError notes the offending norm.
func NewDegenerateQuaternionError(norm float64) error {
	return errors.Wrapf(ErrDegenerateQuaternion, "norm %g", norm)
}

// NewInvalidLengthError notes the payload size actually given.
func NewInvalidLengthError(got int) error {
	return errors.Wrapf(ErrInvalidLength, "got %d", got)
}
