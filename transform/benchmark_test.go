package transform

import (
	"image"
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/nvr-ai/go-contourfill/images"
)

// genFrame builds a frame with a handful of random filled rectangles.
func genFrame(b *testing.B, format frame.PixelFormat, w, h int) frame.Frame {
	b.Helper()
	f, err := frame.NewFrame(format, w, h)
	if err != nil {
		b.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	ch := format.Channels()
	for n := 0; n < 12; n++ {
		x0, y0 := rng.Intn(w-w/8), rng.Intn(h-h/8)
		r := image.Rect(x0, y0, x0+w/16+rng.Intn(w/8), y0+h/16+rng.Intn(h/8)).Intersect(image.Rect(0, 0, w, h))
		v := byte(64 + rng.Intn(192))
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				for c := 0; c < ch; c++ {
					f.Data[y*f.Stride+x*ch+c] = v
				}
			}
		}
	}
	return f
}

func benchmarkTransform(b *testing.B, format frame.PixelFormat, w, h int) {
	in := genFrame(b, format, w, h)
	pool := &frame.Pool{}
	tr := New(pool, WithColorSource(images.NewSeededColors(1)))
	cfg := DefaultConfig()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := tr.Transform(in, cfg)
		if err != nil {
			b.Fatal(err)
		}
		pool.Release(out)
	}
}

func BenchmarkTransform_BGR24_640(b *testing.B)  { benchmarkTransform(b, frame.FormatBGR24, 640, 640) }
func BenchmarkTransform_BGRA32_640(b *testing.B) { benchmarkTransform(b, frame.FormatBGRA32, 640, 640) }
func BenchmarkTransform_Gray8_640(b *testing.B)  { benchmarkTransform(b, frame.FormatGray8, 640, 640) }
func BenchmarkTransform_BGR24_1080p(b *testing.B) {
	benchmarkTransform(b, frame.FormatBGR24, 1920, 1080)
}
