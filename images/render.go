package images

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	// filledThickness asks the rasterizer to fill the polygon interior.
	filledThickness = -1
	// outlineThickness is the stroke width of the contour outline.
	outlineThickness = 1
)

// Render repaints out from scratch: every pixel is set to base, then each
// contour is filled with its own color from fill and stroked with outline.
//
// Contours are drawn in slice order, so later contours paint over earlier
// ones. Contours with fewer than three points cannot enclose an area and are
// skipped without failing the pass. Nested contours are not treated as
// holes; every contour is filled on its own.
//
// Single-channel outputs receive the luminance of each color.
//
// Arguments:
//   - out: The output view. Its pixels are overwritten in place.
//   - contours: The polygons to paint, in discovery order.
//   - base: The background color.
//   - fill: The source of per-contour fill colors.
//   - outline: The stroke color drawn over each filled contour.
//
// Returns:
//   - error: ErrInvalidChannelCount for views other than 1, 3 or 4 channels,
//     ErrAllocationFailure when the canvas cannot be created. On error the
//     contents of out are unspecified.
func Render(out frame.ImageView, contours []Contour, base color.RGBA, fill ColorSource, outline color.RGBA) error {
	mt, err := matType(out.Channels)
	if err != nil {
		return errors.Wrap(err, "render")
	}
	if fill == nil {
		return errors.New("render: nil color source")
	}
	if out.Empty() {
		return nil
	}

	gray := out.Channels == 1
	canvas := gocv.NewMatWithSizeFromScalar(toScalar(base, gray), out.Height, out.Width, mt)
	defer canvas.Close()
	if canvas.Empty() {
		return errors.Wrap(frame.ErrAllocationFailure, "render: canvas")
	}

	for i, c := range contours {
		if c.Degenerate() {
			continue
		}
		if err := drawContour(&canvas, c, forChannels(fill.NextColor(), gray), forChannels(outline, gray)); err != nil {
			return errors.Wrapf(err, "render: contour %d", i)
		}
	}

	return errors.Wrap(StoreMat(canvas, out), "render")
}

// drawContour fills c and strokes its boundary on canvas with 8-connected
// lines.
func drawContour(canvas *gocv.Mat, c Contour, fill, outline color.RGBA) error {
	polygon := gocv.NewPointsVectorFromPoints([][]image.Point{c})
	defer polygon.Close()

	if err := gocv.DrawContours(canvas, polygon, 0, fill, filledThickness); err != nil {
		return err
	}
	return gocv.DrawContours(canvas, polygon, 0, outline, outlineThickness)
}

// forChannels maps a color onto what a canvas with the given layout can
// hold. Gray canvases only read the first scalar component, which gocv
// fills from the blue channel, so the luminance is replicated there.
func forChannels(c color.RGBA, gray bool) color.RGBA {
	if !gray {
		return c
	}
	y := luminance(c)
	return color.RGBA{R: y, G: y, B: y, A: c.A}
}

func toScalar(c color.RGBA, gray bool) gocv.Scalar {
	c = forChannels(c, gray)
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A))
}

// luminance uses the same weights as the BGR to gray conversion.
func luminance(c color.RGBA) uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000)
}
