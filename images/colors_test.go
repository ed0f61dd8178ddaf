package images

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededColorsRepeat(t *testing.T) {
	a, b := NewSeededColors(7), NewSeededColors(7)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.NextColor(), b.NextColor())
	}
}

func TestRandomColorsOpaqueAndVaried(t *testing.T) {
	src := NewRandomColors()
	seen := make(map[color.RGBA]bool)
	for i := 0; i < 64; i++ {
		c := src.NextColor()
		assert.Equal(t, uint8(0xff), c.A)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 1, "colors should vary between draws")
}

func TestFixedColor(t *testing.T) {
	c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	assert.Equal(t, c, FixedColor(c).NextColor())
}
