package frame

import "github.com/pkg/errors"

// ImageView describes a rectangular pixel buffer owned by someone else.
//
// A view never copies and never allocates: Data is the caller's buffer and
// every row returned by Row aliases it. A view is only valid for the
// duration of the transform call it was created for and must not be kept
// afterwards.
//
// Stride is the signed distance in bytes between the start of row y and
// row y+1. A negative stride describes a bottom-up buffer, in which case the
// top row is the last row in memory and Origin points at it.
type ImageView struct {
	// Width is the number of pixels per row.
	Width int
	// Height is the number of rows.
	Height int
	// Depth is the number of bytes per channel.
	Depth int
	// Channels is the number of interleaved channels per pixel.
	Channels int
	// Stride is the signed row pitch in bytes.
	Stride int
	// Origin is the offset of the top row in Data.
	Origin int
	// Data is the whole caller-owned buffer.
	Data []byte
}

// RowBytes returns the number of meaningful bytes in one row.
func (v ImageView) RowBytes() int {
	return v.Width * v.Channels * v.Depth
}

// Empty reports whether the view covers no pixels.
func (v ImageView) Empty() bool {
	return v.Width == 0 || v.Height == 0
}

// Row returns the bytes of row y, aliased into Data. The caller must keep
// 0 <= y < Height.
func (v ImageView) Row(y int) []byte {
	start := v.Origin + y*v.Stride
	n := v.RowBytes()
	return v.Data[start : start+n : start+n]
}

// Packed reports whether rows are stored top-down with no padding, which
// lets the rows be handed to native code as a single contiguous block.
func (v ImageView) Packed() bool {
	return v.Stride == v.RowBytes() && v.Origin == 0
}

// ToView wraps buf as an ImageView of the given format and geometry.
//
// Arguments:
//   - buf: The caller-owned buffer. It is aliased, never copied.
//   - format: The pixel format of buf.
//   - width, height: The frame dimensions in pixels.
//   - stride: The row pitch in bytes, taken verbatim from the frame. Negative
//     values describe bottom-up frames.
//
// Returns:
//   - ImageView: The view over buf.
//   - error: ErrUnsupportedFormat for formats outside the negotiated set,
//     ErrInvalidBuffer when buf cannot hold the described frame.
func ToView(buf []byte, format PixelFormat, width, height, stride int) (ImageView, error) {
	if !format.Supported() {
		return ImageView{}, errors.Wrapf(ErrUnsupportedFormat, "to view: %s (%d)", format, int(format))
	}
	if width < 0 || height < 0 {
		return ImageView{}, errors.Wrapf(ErrInvalidBuffer, "to view: negative dimensions %dx%d", width, height)
	}

	view := ImageView{
		Width:    width,
		Height:   height,
		Depth:    format.BytesPerChannel(),
		Channels: format.Channels(),
		Stride:   stride,
		Data:     buf,
	}
	if view.Empty() {
		return view, nil
	}

	pitch := stride
	if pitch < 0 {
		pitch = -pitch
	}
	if pitch < view.RowBytes() {
		return ImageView{}, errors.Wrapf(ErrInvalidBuffer, "to view: stride %d shorter than row of %d bytes", stride, view.RowBytes())
	}
	need := (height-1)*pitch + view.RowBytes()
	if len(buf) < need {
		return ImageView{}, errors.Wrapf(ErrInvalidBuffer, "to view: buffer holds %d bytes, frame needs %d", len(buf), need)
	}
	if stride < 0 {
		view.Origin = (height - 1) * pitch
	}

	return view, nil
}

// FromView hands the view's buffer and stride back in frame terms. It only
// reads the data reference and stride; it never reallocates, so the result
// is the very buffer the view was created over.
func FromView(view ImageView, format PixelFormat) ([]byte, int, error) {
	if !format.Supported() {
		return nil, 0, errors.Wrapf(ErrUnsupportedFormat, "from view: %s (%d)", format, int(format))
	}
	if view.Channels != format.Channels() || view.Depth != format.BytesPerChannel() {
		return nil, 0, errors.Wrapf(ErrUnsupportedFormat, "from view: %d channel view is not %s", view.Channels, format)
	}
	return view.Data, view.Stride, nil
}
