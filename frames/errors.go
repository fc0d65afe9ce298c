package frames

import "github.com/pkg/errors"

// ErrIdenticalFrames is returned by two-frame constructors given equal tags.
var ErrIdenticalFrames = errors.New("toFrameTag and fromFrameTag must be different")

// NewIdenticalFramesError returns an error indicating that a two-frame
// constructor was given the same tag twice.
func NewIdenticalFramesError(tag FrameTag) error {
	return errors.Wrapf(ErrIdenticalFrames, "got %q for both", tag)
}
