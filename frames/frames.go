// Package frames defines the coordinate-frame and physical-unit tags that every
// geometric value in this module carries. Tags are inert labels: two values may
// be combined only when their tags match, and a tag never participates in any
// numeric computation. Useful when you have a camera, bolted to a gripper,
// bolted to an arm, and need to keep camera-frame measurements from being mixed
// into arm-frame math by accident.
package frames

import "fmt"

// FrameTag names a coordinate system. Two tags denote the same frame iff they
// compare equal as strings.
type FrameTag string

// UnitTag names a physical unit. Units are compared for identity only; there is
// no conversion between them.
type UnitTag string

// Unitless is the unit of dimensionless values such as directions and
// normalized device coordinates.
const Unitless UnitTag = ""

// CheckDistinct guards constructors that connect two frames: a rotation or
// transform between a frame and itself must come from the single-frame
// constructors instead.
func CheckDistinct(to, from FrameTag) error {
	if to == from {
		return NewIdenticalFramesError(to)
	}
	return nil
}

// MustMatchFrames panics unless the two tags name the same frame. Combining
// values from different frames is a programmer error equivalent to a type
// error, not a recoverable runtime condition.
func MustMatchFrames(a, b FrameTag) {
	if a != b {
		panic(fmt.Sprintf("frame mismatch: %q vs %q", a, b))
	}
}

// MustMatchUnits panics unless the two tags name the same unit.
func MustMatchUnits(a, b UnitTag) {
	if a != b {
		panic(fmt.Sprintf("unit mismatch: %q vs %q", a, b))
	}
}
