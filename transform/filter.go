package transform

import (
	"sync/atomic"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// FilterName is the name the filter registers under.
	FilterName = "contourfill"
	// FilterDescription is the one-line summary shown by hosts.
	FilterDescription = "Fill detected object outlines with random colors on a blank background."
)

// Stats counts frames that went through a Filter.
type Stats struct {
	Processed uint64
	Failed    uint64
}

// Filter is the registration a host pipeline sees: a name, the pixel formats
// it accepts on its single input and produces on its single output, and a
// per-frame entry point. Format negotiation itself belongs to the host.
type Filter struct {
	transform FrameTransform
	config    Config
	log       *logrus.Entry

	processed atomic.Uint64
	failed    atomic.Uint64
}

// NewFilter wraps t as a host filter running with DefaultConfig.
func NewFilter(t FrameTransform) *Filter {
	return &Filter{
		transform: t,
		config:    DefaultConfig(),
		log:       logrus.WithField("filter", FilterName),
	}
}

// Name returns FilterName.
func (f *Filter) Name() string { return FilterName }

// Description returns FilterDescription.
func (f *Filter) Description() string { return FilterDescription }

// QueryFormats declares the negotiable pixel formats. The same set applies
// to input and output; the output always has the input's format.
func (f *Filter) QueryFormats() []frame.PixelFormat {
	return frame.SupportedFormats()
}

// FilterFrame transforms one frame. A failed frame is logged and counted and
// its error returned; the host decides whether to skip, retry or stop.
func (f *Filter) FilterFrame(in frame.Frame) (frame.Frame, error) {
	if !in.Format.Supported() {
		f.failed.Add(1)
		err := errors.Wrapf(frame.ErrUnsupportedFormat, "%s: %s", FilterName, in.Format)
		f.log.WithField("format", in.Format.String()).Warn("frame rejected")
		return frame.Frame{}, err
	}

	out, err := f.transform.Transform(in, f.config)
	if err != nil {
		f.failed.Add(1)
		f.log.WithFields(logrus.Fields{
			"format": in.Format.String(),
			"width":  in.Width,
			"height": in.Height,
		}).WithError(err).Warn("frame failed")
		return frame.Frame{}, errors.Wrap(err, FilterName)
	}

	f.processed.Add(1)
	return out, nil
}

// Stats returns the frame counters.
func (f *Filter) Stats() Stats {
	return Stats{Processed: f.processed.Load(), Failed: f.failed.Load()}
}
