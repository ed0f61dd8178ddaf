// Package frame - Pixel formats, frame descriptors and zero-copy image views.
package frame

// PixelFormat is the tagged pixel layout of a frame's first plane.
type PixelFormat int

// PixelFormat constants
const (
	// FormatNone is the zero value and never a valid format.
	FormatNone PixelFormat = iota
	// FormatGray8 is one 8-bit luma channel per pixel.
	FormatGray8
	// FormatBGR24 is three 8-bit channels per pixel in B, G, R order.
	FormatBGR24
	// FormatBGRA32 is four 8-bit channels per pixel in B, G, R, A order.
	FormatBGRA32
	// FormatYUV420P is planar YUV. Pipelines carry it but the contour
	// transform does not accept it.
	FormatYUV420P
)

var formatNames = map[PixelFormat]string{
	FormatNone:    "none",
	FormatGray8:   "gray8",
	FormatBGR24:   "bgr24",
	FormatBGRA32:  "bgra32",
	FormatYUV420P: "yuv420p",
}

// String returns the lower-case short name of the format.
func (f PixelFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Channels returns the number of interleaved channels for supported formats
// and 0 for everything else.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatGray8:
		return 1
	case FormatBGR24:
		return 3
	case FormatBGRA32:
		return 4
	default:
		return 0
	}
}

// BytesPerChannel returns the channel depth in bytes for supported formats
// and 0 for everything else.
func (f PixelFormat) BytesPerChannel() int {
	if f.Supported() {
		return 1
	}
	return 0
}

// Supported reports whether the format belongs to the negotiated set.
func (f PixelFormat) Supported() bool {
	return f == FormatGray8 || f == FormatBGR24 || f == FormatBGRA32
}

// SupportedFormats returns the formats declared to the host pipeline at
// setup time. The returned slice is a fresh copy.
func SupportedFormats() []PixelFormat {
	return []PixelFormat{FormatBGR24, FormatBGRA32, FormatGray8}
}

// ParseFormat maps a short name as produced by String back to its format.
func ParseFormat(name string) (PixelFormat, bool) {
	for f, n := range formatNames {
		if n == name && f != FormatNone {
			return f, true
		}
	}
	return FormatNone, false
}
