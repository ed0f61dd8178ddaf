// Command contourfill runs the contour-fill transform over a still image or a
// video file.
//
//	contourfill --input street.mp4 --output filled.avi --format bgra32
//
// Every flag can also be set through a CONTOURFILL_* environment variable,
// e.g. CONTOURFILL_MAX_FRAMES=100.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/nvr-ai/go-contourfill/images"
	"github.com/nvr-ai/go-contourfill/profiler"
	"github.com/nvr-ai/go-contourfill/transform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
)

// Operation names recorded next to the transform stages.
const (
	opDecode = "decode"
	opEncode = "encode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "contourfill --input <file> --output <file>",
		Short:        transform.FilterDescription,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			logrus.SetLevel(opts.LogLevel)
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			return run(cmd.Context(), opts, logrus.StandardLogger())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Input image or video file")
	flags.String("output", "", "Output image or video file")
	flags.String("format", frame.FormatBGR24.String(), "Pixel format frames are processed in (bgr24, bgra32, gray8)")
	flags.Int("max-frames", 0, "Stop after this many frames (0 processes the whole input)")
	flags.Int("width", 0, "Resize frames to this width before processing")
	flags.Int("height", 0, "Resize frames to this height before processing")
	flags.Uint64("seed", 0, "Seed for fill colors (0 seeds from the clock)")
	flags.String("log-level", logrus.InfoLevel.String(), "Log level")
	cobra.CheckErr(v.BindPFlags(flags))

	return cmd
}

// run drives frames from the input through the filter into the output.
func run(ctx context.Context, opts Options, log *logrus.Logger) error {
	src, err := openSource(opts)
	if err != nil {
		return err
	}
	defer src.Close()

	out := newSink(opts, src.FPS())

	pool := &frame.Pool{}
	prof := profiler.NewStageProfiler()
	transformOpts := []transform.Option{
		transform.WithObserver(prof),
		transform.WithLogger(log.WithField("component", "transform")),
	}
	if opts.Seed != 0 {
		transformOpts = append(transformOpts, transform.WithColorSource(images.NewSeededColors(opts.Seed)))
	}
	filter := transform.NewFilter(transform.New(pool, transformOpts...))

	log.WithFields(logrus.Fields{
		"input":      opts.Input,
		"input_type": opts.InputType.String(),
		"output":     opts.Output,
		"format":     opts.Format.String(),
		"max_frames": opts.MaxFrames,
	}).Info("contourfill started")

	limit := opts.MaxFrames
	if opts.OutputType == MediaImage {
		limit = 1
	}

	img := gocv.NewMat()
	defer img.Close()

	frames := 0
	for limit == 0 || frames < limit {
		if err := ctx.Err(); err != nil {
			out.Close()
			return err
		}

		doneDecode := prof.StartOperation(opDecode)
		ok := src.Read(&img)
		doneDecode()
		if !ok {
			break
		}
		if img.Empty() {
			continue
		}
		frames++

		if err := processFrame(img, opts, pool, filter, out, prof); err != nil {
			// Failed transforms are logged and counted by the filter.
			if errors.Is(err, frame.ErrUnsupportedFormat) {
				out.Close()
				return err
			}
			log.WithError(err).WithField("frame", frames).Debug("frame skipped")
		}
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	stats := filter.Stats()
	prof.Report(log)
	log.WithFields(logrus.Fields{
		"frames":    frames,
		"processed": stats.Processed,
		"failed":    stats.Failed,
	}).Info("contourfill finished")

	if frames == 0 {
		return errors.Errorf("no frames read from %s", opts.Input)
	}
	if stats.Processed == 0 {
		return errors.Errorf("all %d frames failed", stats.Failed)
	}
	return nil
}

// processFrame converts one decoded frame, runs the filter and writes the
// result. Every buffer taken from pool is returned to it.
func processFrame(img gocv.Mat, opts Options, pool *frame.Pool, filter *transform.Filter, out sink, prof *profiler.StageProfiler) error {
	if opts.Width > 0 && (img.Cols() != opts.Width || img.Rows() != opts.Height) {
		scaled := scale(img, opts.Width, opts.Height)
		defer scaled.Close()
		img = scaled
	}

	in, err := toFrame(img, opts.Format, pool)
	if err != nil {
		return err
	}
	defer pool.Release(in)

	rendered, err := filter.FilterFrame(in)
	if err != nil {
		return err
	}
	defer pool.Release(rendered)

	doneEncode := prof.StartOperation(opEncode)
	defer doneEncode()

	bgr, err := toBGR(rendered)
	if err != nil {
		return err
	}
	defer bgr.Close()

	return out.Write(bgr)
}
