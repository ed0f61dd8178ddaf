package frame

import "github.com/pkg/errors"

// Frame is the descriptor a host pipeline hands over for one video frame.
// Only the first plane is described; every supported format is packed.
type Frame struct {
	// Format is the pixel layout of Data.
	Format PixelFormat `json:"format" yaml:"format"`
	// Width of the frame in pixels.
	Width int `json:"width" yaml:"width"`
	// Height of the frame in pixels.
	Height int `json:"height" yaml:"height"`
	// Data is the pixel buffer.
	Data []byte `json:"-" yaml:"-"`
	// Stride is the signed row pitch of Data in bytes.
	Stride int `json:"stride" yaml:"stride"`
}

// View wraps the frame's buffer as an ImageView.
func (f Frame) View() (ImageView, error) {
	return ToView(f.Data, f.Format, f.Width, f.Height, f.Stride)
}

// FrameSize returns the packed stride and total buffer size of a top-down
// frame of the given format and dimensions.
func FrameSize(format PixelFormat, width, height int) (stride, size int, err error) {
	if !format.Supported() {
		return 0, 0, errors.Wrapf(ErrUnsupportedFormat, "frame size: %s", format)
	}
	if width < 0 || height < 0 {
		return 0, 0, errors.Wrapf(ErrAllocationFailure, "frame size: negative dimensions %dx%d", width, height)
	}
	stride = width * format.Channels() * format.BytesPerChannel()
	return stride, stride * height, nil
}

// NewFrame allocates a zeroed, packed, top-down frame.
func NewFrame(format PixelFormat, width, height int) (Frame, error) {
	stride, size, err := FrameSize(format, width, height)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Format: format,
		Width:  width,
		Height: height,
		Data:   make([]byte, size),
		Stride: stride,
	}, nil
}
