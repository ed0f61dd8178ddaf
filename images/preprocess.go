package images

import (
	"image"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// IntensityImage is a single-channel 8-bit image owned by one transform
// call. It must be closed before the call returns.
type IntensityImage struct {
	mat gocv.Mat
}

// Width returns the image width in pixels.
func (i *IntensityImage) Width() int { return i.mat.Cols() }

// Height returns the image height in pixels.
func (i *IntensityImage) Height() int { return i.mat.Rows() }

// Empty reports whether the image covers no pixels.
func (i *IntensityImage) Empty() bool { return i == nil || i.mat.Empty() }

// At returns the intensity at column x, row y.
func (i *IntensityImage) At(x, y int) uint8 { return i.mat.GetUCharAt(y, x) }

// Bytes returns a packed copy of the pixels.
func (i *IntensityImage) Bytes() []byte { return i.mat.ToBytes() }

// Close releases the native image memory.
func (i *IntensityImage) Close() error {
	if i == nil {
		return nil
	}
	return i.mat.Close()
}

// grayConversion picks the color conversion for a channel count. Gray input
// needs none and reports convert=false.
func grayConversion(channels int) (code gocv.ColorConversionCode, convert bool, err error) {
	switch channels {
	case 1:
		return 0, false, nil
	case 3:
		return gocv.ColorBGRToGray, true, nil
	case 4:
		return gocv.ColorBGRAToGray, true, nil
	default:
		return 0, false, errors.Wrapf(frame.ErrInvalidChannelCount, "to gray: %d channels", channels)
	}
}

// ToGray converts a view to single-channel intensity.
//
// Color input is reduced with the fixed luminance weights
// Y = 0.299 R + 0.587 G + 0.114 B. Gray input is copied unchanged, so the
// returned image never aliases the view.
//
// Arguments:
//   - view: The frame to convert. It is only read.
//
// Returns:
//   - *IntensityImage: A new image the caller must Close.
//   - error: ErrInvalidChannelCount for layouts other than 1, 3 or 4
//     channels, ErrAllocationFailure when no working image can be created.
func ToGray(view frame.ImageView) (*IntensityImage, error) {
	code, convert, err := grayConversion(view.Channels)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return &IntensityImage{mat: gocv.NewMat()}, nil
	}

	src, err := MatFromView(view)
	if err != nil {
		return nil, errors.Wrap(err, "to gray")
	}
	defer src.Close()

	if !convert {
		dst := src.Clone()
		if dst.Empty() {
			dst.Close()
			return nil, errors.Wrap(frame.ErrAllocationFailure, "to gray: copy")
		}
		return &IntensityImage{mat: dst}, nil
	}

	dst := gocv.NewMat()
	if err := gocv.CvtColor(src, &dst, code); err != nil {
		dst.Close()
		return nil, errors.Wrap(err, "to gray: convert")
	}
	if dst.Empty() {
		dst.Close()
		return nil, errors.Wrap(frame.ErrAllocationFailure, "to gray: convert")
	}
	return &IntensityImage{mat: dst}, nil
}

// Smooth applies a kernelSize x kernelSize Gaussian low-pass filter and
// returns the result as a new image; img is left untouched. A sigma of 0
// derives the deviation from the kernel size.
func Smooth(img *IntensityImage, kernelSize int, sigma float64) (*IntensityImage, error) {
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return nil, errors.Errorf("smooth: kernel size %d must be odd and positive", kernelSize)
	}
	if img.Empty() {
		return &IntensityImage{mat: gocv.NewMat()}, nil
	}

	dst := gocv.NewMat()
	if err := gocv.GaussianBlur(img.mat, &dst, image.Pt(kernelSize, kernelSize), sigma, sigma, gocv.BorderDefault); err != nil {
		dst.Close()
		return nil, errors.Wrap(err, "smooth")
	}
	if dst.Empty() {
		dst.Close()
		return nil, errors.Wrap(frame.ErrAllocationFailure, "smooth")
	}
	return &IntensityImage{mat: dst}, nil
}
