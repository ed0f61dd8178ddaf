package images

import (
	"image/color"
	"math/rand/v2"
	"sync"
	"time"
)

// ColorSource supplies one fill color per rendered contour.
type ColorSource interface {
	NextColor() color.RGBA
}

// RandomColors draws independent, uniformly distributed RGB triples.
// It is safe for concurrent use.
type RandomColors struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomColors returns a source seeded from the wall clock, so two runs
// over the same input paint different colors.
func NewRandomColors() *RandomColors {
	now := uint64(time.Now().UnixNano())
	return &RandomColors{rng: rand.New(rand.NewPCG(now, now>>17|1))}
}

// NewSeededColors returns a source that repeats the same color sequence for
// the same seed.
func NewSeededColors(seed uint64) *RandomColors {
	return &RandomColors{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NextColor returns a random opaque color, 0-255 per channel.
func (r *RandomColors) NextColor() color.RGBA {
	r.mu.Lock()
	v := r.rng.Uint32()
	r.mu.Unlock()
	return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 0xff}
}

// FixedColor paints every contour the same color.
type FixedColor color.RGBA

// NextColor returns the fixed color.
func (f FixedColor) NextColor() color.RGBA { return color.RGBA(f) }
