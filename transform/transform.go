// Package transform - The contour-fill frame transform and its host-facing
// filter registration.
//
// A host pipeline owns frame buffers and drives the transform one frame at a
// time:
//
//	pool := &frame.Pool{}
//	filter := transform.NewFilter(transform.New(pool))
//
//	for in := range frames {
//	    out, err := filter.FilterFrame(in)
//	    if err != nil {
//	        // skip, retry or abort; out is never valid here
//	        continue
//	    }
//	    emit(out)
//	    pool.Release(out)
//	}
package transform

import (
	"image/color"
	"time"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/nvr-ai/go-contourfill/images"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Stage names reported to an Observer.
const (
	StagePreprocess = "preprocess"
	StageExtract    = "extract"
	StageRender     = "render"
	StageFrame      = "frame"
)

// Config holds the algorithm constants of the transform.
type Config struct {
	// KernelSize is the side of the square Gaussian smoothing kernel. Odd.
	KernelSize int
	// Sigma is the Gaussian deviation; 0 derives it from KernelSize.
	Sigma float64
	// Contours configures edge detection and polygon approximation.
	Contours images.ContourParams
	// BaseColor is the background every output pixel starts from.
	BaseColor color.RGBA
	// OutlineColor is the stroke drawn around every filled contour.
	OutlineColor color.RGBA
}

// DefaultConfig returns the fixed constants the filter runs with.
func DefaultConfig() Config {
	return Config{
		KernelSize:   7,
		Sigma:        0,
		Contours:     images.DefaultContourParams(),
		BaseColor:    color.RGBA{},
		OutlineColor: color.RGBA{},
	}
}

// FrameTransform turns one input frame into one output frame.
//
// On error the returned Frame is the zero value; a caller must never use a
// partially written output.
type FrameTransform interface {
	Transform(in frame.Frame, cfg Config) (frame.Frame, error)
}

// Allocator provides output frames. The host pipeline owns their lifetime.
type Allocator interface {
	Allocate(format frame.PixelFormat, width, height int) (frame.Frame, error)
}

// Releaser is implemented by allocators that take buffers back. Outputs of
// failed frames are handed back through it.
type Releaser interface {
	Release(f frame.Frame)
}

// Observer receives the duration of every completed stage.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
}

// ContourFill is the FrameTransform that blanks a frame and fills each
// detected object outline with its own random color.
//
// It keeps no state between frames apart from its collaborators.
type ContourFill struct {
	alloc    Allocator
	colors   images.ColorSource
	log      *logrus.Entry
	observer Observer
}

// Option configures a ContourFill.
type Option func(*ContourFill)

// WithColorSource replaces the time-seeded random fill colors.
func WithColorSource(src images.ColorSource) Option {
	return func(c *ContourFill) { c.colors = src }
}

// WithLogger sets the logger used for per-frame diagnostics.
func WithLogger(log *logrus.Entry) Option {
	return func(c *ContourFill) { c.log = log }
}

// WithObserver attaches a stage timing observer.
func WithObserver(o Observer) Option {
	return func(c *ContourFill) { c.observer = o }
}

// New creates a ContourFill drawing output buffers from alloc. A nil alloc
// falls back to fresh heap allocations.
func New(alloc Allocator, opts ...Option) *ContourFill {
	if alloc == nil {
		alloc = (*frame.Pool)(nil)
	}
	c := &ContourFill{
		alloc:  alloc,
		colors: images.NewRandomColors(),
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform renders in into a freshly allocated frame of the same format and
// dimensions.
//
// Arguments:
//   - in: The input frame. Its buffer is only read and not retained.
//   - cfg: The algorithm constants, normally DefaultConfig().
//
// Returns:
//   - frame.Frame: The rendered output, fully written.
//   - error: frame.ErrUnsupportedFormat, frame.ErrInvalidBuffer,
//     frame.ErrInvalidChannelCount or frame.ErrAllocationFailure. The
//     returned frame is then the zero value and every intermediate has been
//     released.
func (c *ContourFill) Transform(in frame.Frame, cfg Config) (out frame.Frame, err error) {
	started := time.Now()

	inView, err := in.View()
	if err != nil {
		return frame.Frame{}, errors.Wrap(err, "input frame")
	}

	out, err = c.alloc.Allocate(in.Format, in.Width, in.Height)
	if err != nil {
		return frame.Frame{}, errors.Wrapf(frame.ErrAllocationFailure, "allocate output: %v", err)
	}
	defer func() {
		if err != nil {
			if r, ok := c.alloc.(Releaser); ok {
				r.Release(out)
			}
			out = frame.Frame{}
		}
	}()

	if out.Format != in.Format || out.Width != in.Width || out.Height != in.Height {
		return out, errors.Wrapf(frame.ErrInvalidBuffer, "allocator returned %s %dx%d for %s %dx%d",
			out.Format, out.Width, out.Height, in.Format, in.Width, in.Height)
	}
	outView, err := out.View()
	if err != nil {
		return out, errors.Wrap(err, "output frame")
	}

	contours, err := c.extract(inView, cfg)
	if err != nil {
		return out, err
	}

	stage := time.Now()
	if err := images.Render(outView, contours, cfg.BaseColor, c.colors, cfg.OutlineColor); err != nil {
		return out, err
	}
	c.observe(StageRender, stage)
	c.observe(StageFrame, started)

	if c.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"format":     in.Format.String(),
			"width":      in.Width,
			"height":     in.Height,
			"contours":   len(contours),
			"degenerate": countDegenerate(contours),
			"elapsed":    time.Since(started),
		}).Debug("frame transformed")
	}
	return out, nil
}

// extract runs the preprocessing and contour stages. All intermediate
// images are released before it returns.
func (c *ContourFill) extract(view frame.ImageView, cfg Config) ([]images.Contour, error) {
	stage := time.Now()
	gray, err := images.ToGray(view)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	smooth, err := images.Smooth(gray, cfg.KernelSize, cfg.Sigma)
	if err != nil {
		return nil, err
	}
	defer smooth.Close()
	c.observe(StagePreprocess, stage)

	stage = time.Now()
	contours, err := images.ExtractContours(smooth, cfg.Contours)
	if err != nil {
		return nil, err
	}
	c.observe(StageExtract, stage)

	return contours, nil
}

func (c *ContourFill) observe(stage string, since time.Time) {
	if c.observer != nil {
		c.observer.ObserveStage(stage, time.Since(since))
	}
}

func countDegenerate(contours []images.Contour) int {
	n := 0
	for _, c := range contours {
		if c.Degenerate() {
			n++
		}
	}
	return n
}
