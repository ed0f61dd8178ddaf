package images

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{}
	teal  = color.RGBA{R: 10, G: 200, B: 30, A: 255}
)

// filled returns the pixel bytes a fill color becomes in a view of format.
func filled(format frame.PixelFormat, c color.RGBA) []byte {
	switch format {
	case frame.FormatGray8:
		return []byte{luminance(c)}
	case frame.FormatBGR24:
		return []byte{c.B, c.G, c.R}
	default:
		return []byte{c.B, c.G, c.R, c.A}
	}
}

// TestRenderClearsOutput ensures the output is fully overwritten with the
// base color even when there is nothing to draw.
func TestRenderClearsOutput(t *testing.T) {
	for _, format := range frame.SupportedFormats() {
		t.Run(format.String(), func(t *testing.T) {
			view := newStridedView(t, format, 9, 7, 9*format.Channels()+3, nil)
			for i := range view.Data {
				view.Data[i] = 0xEE
			}

			require.NoError(t, Render(view, nil, black, FixedColor(teal), black))

			for y := 0; y < view.Height; y++ {
				assert.Equal(t, make([]byte, view.RowBytes()), view.Row(y), "row %d", y)
			}
			// Padding belongs to nobody and is left alone.
			assert.Equal(t, byte(0xEE), view.Data[view.RowBytes()])
		})
	}
}

// TestRenderPolygon validates interior fill, the black outline and the
// untouched background for every format.
func TestRenderPolygon(t *testing.T) {
	polygon := Contour{{10, 10}, {30, 10}, {30, 30}, {10, 30}}

	for _, format := range frame.SupportedFormats() {
		t.Run(format.String(), func(t *testing.T) {
			view := newView(t, format, 40, 40, nil)

			require.NoError(t, Render(view, []Contour{polygon}, black, FixedColor(teal), black))

			want := filled(format, teal)
			base := make([]byte, format.Channels())
			assert.Equal(t, want, pixel(view, 20, 20), "interior")
			assert.Equal(t, want, pixel(view, 11, 29), "interior next to the outline")
			assert.Equal(t, base, pixel(view, 10, 20), "outline")
			assert.Equal(t, base, pixel(view, 5, 5), "background")
			assert.Equal(t, base, pixel(view, 35, 20), "background")

			assert.Len(t, distinctPixels(view), 2)
		})
	}
}

// TestRenderSkipsDegenerateContours ensures contours that cannot enclose an
// area are skipped without a color draw while the rest still render.
func TestRenderSkipsDegenerateContours(t *testing.T) {
	view := newView(t, frame.FormatBGR24, 40, 40, nil)
	colors := &countingColors{color: teal}

	contours := []Contour{
		{{2, 2}, {38, 2}},
		nil,
		{{10, 10}, {30, 10}, {30, 30}, {10, 30}},
		{{5, 35}},
	}
	require.NoError(t, Render(view, contours, black, colors, black))

	assert.Equal(t, 1, colors.calls)
	assert.Equal(t, filled(frame.FormatBGR24, teal), pixel(view, 20, 20))
	assert.Equal(t, []byte{0, 0, 0}, pixel(view, 20, 2), "degenerate line must not be drawn")
}

// TestRenderOrder ensures later contours paint over earlier ones.
func TestRenderOrder(t *testing.T) {
	view := newView(t, frame.FormatBGRA32, 40, 40, nil)
	seq := &sequenceColors{colors: []color.RGBA{
		{R: 200, A: 255},
		{G: 200, A: 255},
	}}

	contours := []Contour{
		{{5, 5}, {35, 5}, {35, 35}, {5, 35}},
		{{15, 15}, {25, 15}, {25, 25}, {15, 25}},
	}
	require.NoError(t, Render(view, contours, black, seq, black))

	assert.Equal(t, []byte{0, 0, 200, 255}, pixel(view, 10, 10))
	assert.Equal(t, []byte{0, 200, 0, 255}, pixel(view, 20, 20))
}

// TestRenderBottomUp ensures rows land where the view says they are when
// the output buffer is stored bottom-up.
func TestRenderBottomUp(t *testing.T) {
	const w, h = 20, 20
	stride := w * 3
	view := newStridedView(t, frame.FormatBGR24, w, h, -stride, nil)

	top := Contour{{0, 0}, {19, 0}, {19, 5}, {0, 5}}
	require.NoError(t, Render(view, []Contour{top}, black, FixedColor(teal), black))

	want := filled(frame.FormatBGR24, teal)
	// Picture row 2 is memory row h-1-2.
	memRow := view.Data[(h-1-2)*stride : (h-2)*stride]
	assert.Equal(t, want, memRow[10*3:11*3])
	// Picture row 15 is memory row 4 and stays background.
	assert.True(t, bytes.Equal(make([]byte, stride), view.Data[4*stride:5*stride]))
}

func TestRenderGrayUsesLuminance(t *testing.T) {
	view := newView(t, frame.FormatGray8, 20, 20, nil)
	c := color.RGBA{R: 255, A: 255}

	require.NoError(t, Render(view, []Contour{{{2, 2}, {17, 2}, {17, 17}, {2, 17}}}, black, FixedColor(c), black))
	assert.Equal(t, []byte{76}, pixel(view, 10, 10))
}

func TestRenderErrors(t *testing.T) {
	bad := frame.ImageView{Width: 2, Height: 2, Depth: 1, Channels: 2, Stride: 4, Data: make([]byte, 8)}
	err := Render(bad, nil, black, FixedColor(teal), black)
	assert.True(t, errors.Is(err, frame.ErrInvalidChannelCount), "%v", err)

	view := newView(t, frame.FormatGray8, 4, 4, nil)
	assert.Error(t, Render(view, nil, black, nil, black))
}

func TestRenderEmptyView(t *testing.T) {
	view, err := frame.ToView(nil, frame.FormatBGRA32, 0, 0, 0)
	require.NoError(t, err)
	assert.NoError(t, Render(view, []Contour{{{0, 0}, {1, 0}, {1, 1}}}, black, FixedColor(teal), black))
}

// TestRenderRectangleFrame runs the full stage sequence over a rectangle and
// checks that the result splits into background and one filled region.
func TestRenderRectangleFrame(t *testing.T) {
	rect := image.Rect(16, 16, 48, 48)
	in := newView(t, frame.FormatBGR24, 64, 64, square(rect))

	img := smoothed(t, in)
	defer img.Close()
	contours, err := ExtractContours(img, DefaultContourParams())
	require.NoError(t, err)

	out := newView(t, frame.FormatBGR24, 64, 64, nil)
	require.NoError(t, Render(out, contours, black, FixedColor(teal), black))

	want := filled(frame.FormatBGR24, teal)
	assert.Equal(t, want, pixel(out, 32, 32), "rectangle interior")
	assert.Equal(t, []byte{0, 0, 0}, pixel(out, 2, 2), "background")
	assert.Equal(t, []byte{0, 0, 0}, pixel(out, 60, 33), "background")
	assert.Len(t, distinctPixels(out), 2)
}

// sequenceColors hands out a fixed list of colors in order.
type sequenceColors struct {
	colors []color.RGBA
	next   int
}

func (s *sequenceColors) NextColor() color.RGBA {
	c := s.colors[s.next%len(s.colors)]
	s.next++
	return c
}
