package main

import (
	"image"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/nvr-ai/go-contourfill/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// videoCodec is the FourCC used for video outputs.
const videoCodec = "MJPG"

// defaultFPS is used when the input does not report a frame rate.
const defaultFPS = 25.0

// source yields decoded BGR frames.
type source interface {
	// Read replaces dst with the next frame. It returns false once the input
	// is exhausted.
	Read(dst *gocv.Mat) bool
	FPS() float64
	Close() error
}

// sink consumes BGR frames.
type sink interface {
	Write(img gocv.Mat) error
	Close() error
}

// imageSource yields a single still image.
type imageSource struct {
	path string
	done bool
}

func (s *imageSource) Read(dst *gocv.Mat) bool {
	if s.done {
		return false
	}
	s.done = true

	img := gocv.IMRead(s.path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return false
	}
	dst.Close()
	*dst = img
	return true
}

func (s *imageSource) FPS() float64 { return 0 }

func (s *imageSource) Close() error { return nil }

// videoSource decodes a video file.
type videoSource struct {
	capture *gocv.VideoCapture
}

func (s *videoSource) Read(dst *gocv.Mat) bool { return s.capture.Read(dst) }

func (s *videoSource) FPS() float64 {
	if fps := s.capture.Get(gocv.VideoCaptureFPS); fps > 0 {
		return fps
	}
	return defaultFPS
}

func (s *videoSource) Close() error { return s.capture.Close() }

// openSource opens the input named by opts.
func openSource(opts Options) (source, error) {
	if opts.InputType == MediaImage {
		return &imageSource{path: opts.Input}, nil
	}
	capture, err := gocv.VideoCaptureFile(opts.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "open video %s", opts.Input)
	}
	return &videoSource{capture: capture}, nil
}

// imageSink writes every frame it receives to the same still image path.
type imageSink struct {
	path string
}

func (s *imageSink) Write(img gocv.Mat) error {
	if !gocv.IMWrite(s.path, img) {
		return errors.Errorf("write image %s", s.path)
	}
	return nil
}

func (s *imageSink) Close() error { return nil }

// videoSink encodes frames into a video file. The writer is opened on the
// first frame, once the output geometry is known.
type videoSink struct {
	path   string
	fps    float64
	writer *gocv.VideoWriter
}

func (s *videoSink) Write(img gocv.Mat) error {
	if s.writer == nil {
		w, err := gocv.VideoWriterFile(s.path, videoCodec, s.fps, img.Cols(), img.Rows(), true)
		if err != nil {
			return errors.Wrapf(err, "open video writer %s", s.path)
		}
		s.writer = w
	}
	return errors.Wrap(s.writer.Write(img), "write video frame")
}

func (s *videoSink) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}

// newSink creates the output named by opts.
func newSink(opts Options, fps float64) sink {
	if opts.OutputType == MediaVideo {
		return &videoSink{path: opts.Output, fps: fps}
	}
	return &imageSink{path: opts.Output}
}

// fromBGR returns the conversion from decoded BGR to format. ok is false when
// the frame is already in that layout.
func fromBGR(format frame.PixelFormat) (code gocv.ColorConversionCode, ok bool) {
	switch format {
	case frame.FormatGray8:
		return gocv.ColorBGRToGray, true
	case frame.FormatBGRA32:
		return gocv.ColorBGRToBGRA, true
	default:
		return 0, false
	}
}

// toBGRCode returns the conversion from format back to BGR for encoding.
func toBGRCode(format frame.PixelFormat) (code gocv.ColorConversionCode, ok bool) {
	switch format {
	case frame.FormatGray8:
		return gocv.ColorGrayToBGR, true
	case frame.FormatBGRA32:
		return gocv.ColorBGRAToBGR, true
	default:
		return 0, false
	}
}

// toFrame copies a decoded BGR image into a frame of the given format
// allocated from pool.
func toFrame(bgr gocv.Mat, format frame.PixelFormat, pool *frame.Pool) (frame.Frame, error) {
	src := bgr
	if code, ok := fromBGR(format); ok {
		converted := gocv.NewMat()
		defer converted.Close()
		if err := gocv.CvtColor(bgr, &converted, code); err != nil {
			return frame.Frame{}, errors.Wrapf(err, "convert to %s", format)
		}
		src = converted
	}

	f, err := pool.Allocate(format, src.Cols(), src.Rows())
	if err != nil {
		return frame.Frame{}, err
	}
	view, err := f.View()
	if err == nil {
		err = images.StoreMat(src, view)
	}
	if err != nil {
		pool.Release(f)
		return frame.Frame{}, err
	}
	return f, nil
}

// toBGR converts a rendered frame into a new BGR Mat for encoding. The
// caller must Close it.
func toBGR(f frame.Frame) (gocv.Mat, error) {
	view, err := f.View()
	if err != nil {
		return gocv.Mat{}, err
	}
	mat, err := images.MatFromView(view)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()

	code, ok := toBGRCode(f.Format)
	if !ok {
		return mat.Clone(), nil
	}
	out := gocv.NewMat()
	if err := gocv.CvtColor(mat, &out, code); err != nil {
		out.Close()
		return gocv.Mat{}, errors.Wrapf(err, "convert %s to bgr24", f.Format)
	}
	return out, nil
}

// scale returns a copy of img resized to width x height. The caller must
// Close it.
func scale(img gocv.Mat, width, height int) gocv.Mat {
	scaled := gocv.NewMat()
	gocv.Resize(img, &scaled, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	return scaled
}
