package quantity

import "github.com/pkg/errors"

// ErrInvalidRange is returned by Clamp when the bounds are inverted.
var ErrInvalidRange = errors.New("clamp bounds are inverted")

// NewInvalidRangeError returns an error describing inverted clamp bounds.
func NewInvalidRangeError(lo, hi float64) error {
	return errors.Wrapf(ErrInvalidRange, "lo %v > hi %v", lo, hi)
}
