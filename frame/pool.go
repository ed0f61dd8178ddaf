package frame

import (
	"sync"

	"github.com/pkg/errors"
)

// Pool hands out output frames and takes them back once the host is done
// with them, which keeps steady-state allocation at zero for a stream whose
// geometry does not change.
//
// The zero value is ready to use. A nil *Pool allocates fresh frames and
// ignores releases.
type Pool struct {
	buffers sync.Pool // *[]byte
}

// Allocate returns a packed, top-down frame of the given format and size.
// Reused buffers are not cleared; the transform overwrites every pixel.
func (p *Pool) Allocate(format PixelFormat, width, height int) (Frame, error) {
	stride, size, err := FrameSize(format, width, height)
	if err != nil {
		return Frame{}, errors.Wrap(err, "pool allocate")
	}

	out := Frame{Format: format, Width: width, Height: height, Stride: stride}
	if p != nil {
		if v := p.buffers.Get(); v != nil {
			buf := v.(*[]byte)
			if cap(*buf) >= size {
				out.Data = (*buf)[:size]
				return out, nil
			}
		}
	}
	out.Data = make([]byte, size)
	return out, nil
}

// Release returns a frame's buffer to the pool. The frame must not be used
// afterwards.
func (p *Pool) Release(f Frame) {
	if p == nil || f.Data == nil {
		return
	}
	buf := f.Data[:0]
	p.buffers.Put(&buf)
}
