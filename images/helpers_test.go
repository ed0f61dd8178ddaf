package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/stretchr/testify/require"
)

// newView allocates a packed, top-down view of the given format where every
// pixel is produced by paint.
func newView(t *testing.T, format frame.PixelFormat, w, h int, paint func(x, y int) color.RGBA) frame.ImageView {
	t.Helper()
	return newStridedView(t, format, w, h, w*format.Channels(), paint)
}

// newStridedView is newView with an explicit, possibly negative or padded,
// stride.
func newStridedView(t *testing.T, format frame.PixelFormat, w, h, stride int, paint func(x, y int) color.RGBA) frame.ImageView {
	t.Helper()
	pitch := stride
	if pitch < 0 {
		pitch = -pitch
	}
	view, err := frame.ToView(make([]byte, pitch*h), format, w, h, stride)
	require.NoError(t, err)
	if paint == nil {
		return view
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPixel(view, x, y, paint(x, y))
		}
	}
	return view
}

func setPixel(view frame.ImageView, x, y int, c color.RGBA) {
	px := pixel(view, x, y)
	switch view.Channels {
	case 1:
		px[0] = luminance(c)
	case 3:
		px[0], px[1], px[2] = c.B, c.G, c.R
	case 4:
		px[0], px[1], px[2], px[3] = c.B, c.G, c.R, c.A
	}
}

func pixel(view frame.ImageView, x, y int) []byte {
	ch := view.Channels
	return view.Row(y)[x*ch : (x+1)*ch]
}

// square paints white inside r and black elsewhere.
func square(r image.Rectangle) func(x, y int) color.RGBA {
	return func(x, y int) color.RGBA {
		if image.Pt(x, y).In(r) {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{A: 255}
	}
}

// distinctPixels returns the set of distinct pixel values in view.
func distinctPixels(view frame.ImageView) map[string]int {
	seen := make(map[string]int)
	for y := 0; y < view.Height; y++ {
		for x := 0; x < view.Width; x++ {
			seen[string(pixel(view, x, y))]++
		}
	}
	return seen
}

// countingColors records how many colors were requested.
type countingColors struct {
	color color.RGBA
	calls int
}

func (c *countingColors) NextColor() color.RGBA {
	c.calls++
	return c.color
}
