package spatialmath

import "github.com/hexbotics/framemath/frames"

// TRSCache memoizes the most recent Mat4FromTRS result for a fixed frame pair
// and translation unit. Animation loops that rebuild a transform every tick
// from mostly-unchanged inputs get back the identical *Mat4 instance, so
// downstream work keyed on pointer identity can be skipped.
//
// The cache holds exactly one slot: any input change rebuilds, and two
// alternating input sets defeat it on every call. It is not safe for
// concurrent use; callers sharing one across goroutines must serialize access.
type TRSCache struct {
	to   frames.FrameTag
	from frames.FrameTag
	unit frames.UnitTag

	lastTranslation [3]float64
	lastRotation    [4]float64
	lastScale       [3]float64
	lastMatrix      *Mat4
	hasCached       bool
}

// NewTRSCache returns an empty cache building transforms from from into to
// with the given translation unit.
func NewTRSCache(to, from frames.FrameTag, unit frames.UnitTag) *TRSCache {
	return &TRSCache{to: to, from: from, unit: unit}
}

// Mat4FromTRS returns the translate-rotate-scale transform for the given
// inputs, reusing the previously built instance when all ten scalars compare
// exactly equal to the last call's. NaN inputs never compare equal, so they
// always rebuild.
func (c *TRSCache) Mat4FromTRS(rotation Quaternion, translation Delta3, sx, sy, sz float64) *Mat4 {
	frames.MustMatchFrames(c.to, rotation.To)
	frames.MustMatchFrames(c.from, rotation.From)
	frames.MustMatchFrames(c.to, translation.Frame)
	frames.MustMatchUnits(c.unit, translation.Unit)

	t := [3]float64{translation.X, translation.Y, translation.Z}
	r := [4]float64{rotation.X(), rotation.Y(), rotation.Z(), rotation.W()}
	s := [3]float64{sx, sy, sz}
	if c.hasCached && t == c.lastTranslation && r == c.lastRotation && s == c.lastScale {
		return c.lastMatrix
	}

	c.lastTranslation = t
	c.lastRotation = r
	c.lastScale = s
	c.lastMatrix = Mat4FromTRS(rotation, translation, sx, sy, sz)
	c.hasCached = true
	return c.lastMatrix
}
