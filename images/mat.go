// Package images - Per-frame image processing for the contour-fill transform,
// built on OpenCV (via gocv).
//
// Pipeline Overview:
//
// ┌──────────────────┐
// │ frame.ImageView  │
// └──────┬───────────┘
// ┌──────────────────────────────────────┐
// │ ToGray + Smooth (7x7 Gaussian)       │
// └──────┬───────────────────────────────┘
// ┌──────────────────────────────────────┐
// │ DetectEdges (hysteresis, 50/200)     │
// └──────┬───────────────────────────────┘
// ┌──────────────────────────────────────┐
// │ FindContours + Approximate (eps 3)   │
// └──────┬───────────────────────────────┘
// ┌──────────────────────────────────────┐
// │ Render (clear, fill, outline)        │
// └──────────────────────────────────────┘
//
// Every intermediate owns native memory. Callers must Close what they are
// given, typically with defer right after the error check.
package images

import (
	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// matType returns the 8-bit Mat type for an interleaved channel count.
func matType(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	default:
		return 0, errors.Wrapf(frame.ErrInvalidChannelCount, "%d channels", channels)
	}
}

// MatFromView returns a Mat holding the view's pixels. The caller must Close it.
//
// A packed top-down view is wrapped in place. Padded or bottom-up views are
// first packed into a buffer that lives as long as the returned Mat, since a
// Mat cannot describe a negative row pitch.
func MatFromView(view frame.ImageView) (gocv.Mat, error) {
	mt, err := matType(view.Channels)
	if err != nil {
		return gocv.Mat{}, err
	}
	if view.Depth != 1 {
		return gocv.Mat{}, errors.Wrapf(frame.ErrInvalidChannelCount, "%d byte channels", view.Depth)
	}

	rowBytes := view.RowBytes()
	var data []byte
	if view.Packed() {
		data = view.Data[:rowBytes*view.Height]
	} else {
		data = make([]byte, rowBytes*view.Height)
		for y := 0; y < view.Height; y++ {
			copy(data[y*rowBytes:(y+1)*rowBytes], view.Row(y))
		}
	}

	mat, err := gocv.NewMatFromBytes(view.Height, view.Width, mt, data)
	if err != nil {
		return gocv.Mat{}, errors.Wrap(frame.ErrAllocationFailure, err.Error())
	}
	return mat, nil
}

// StoreMat writes the pixels of mat into view row by row, honouring the
// view's stride. Geometry and channel layout must match exactly.
func StoreMat(mat gocv.Mat, view frame.ImageView) error {
	if mat.Rows() != view.Height || mat.Cols() != view.Width {
		return errors.Wrapf(frame.ErrInvalidBuffer, "store: mat is %dx%d, view is %dx%d",
			mat.Cols(), mat.Rows(), view.Width, view.Height)
	}
	if mat.Channels() != view.Channels {
		return errors.Wrapf(frame.ErrInvalidChannelCount, "store: mat has %d channels, view has %d",
			mat.Channels(), view.Channels)
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return errors.Wrap(err, "store: mat data")
	}
	step := mat.Step()
	rowBytes := view.RowBytes()
	for y := 0; y < view.Height; y++ {
		copy(view.Row(y), data[y*step:y*step+rowBytes])
	}
	return nil
}
