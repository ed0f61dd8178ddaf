package frame

import "github.com/pkg/errors"

// Per-frame failure kinds. Every one of them is fatal to the frame being
// transformed and to nothing else; callers match them with errors.Is.
var (
	// ErrUnsupportedFormat is returned for pixel formats outside the
	// negotiated set.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrInvalidChannelCount is returned when an image has a channel
	// count other than 1, 3 or 4.
	ErrInvalidChannelCount = errors.New("invalid channel count")
	// ErrAllocationFailure is returned when a working or output buffer
	// cannot be acquired.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrInvalidBuffer is returned when a buffer cannot hold the frame its
	// descriptor claims.
	ErrInvalidBuffer = errors.New("invalid frame buffer")
)
