package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MediaType identifies how a path is read or written.
type MediaType int

const (
	// MediaImage is a single still image.
	MediaImage MediaType = iota
	// MediaVideo is a video file decoded frame by frame.
	MediaVideo
)

func (m MediaType) String() string {
	if m == MediaVideo {
		return "video"
	}
	return "image"
}

var (
	supportedVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}
	supportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}
)

// Options is the resolved command configuration.
type Options struct {
	Input     string
	Output    string
	Format    frame.PixelFormat
	MaxFrames int
	Width     int
	Height    int
	Seed      uint64
	LogLevel  logrus.Level

	InputType  MediaType
	OutputType MediaType
}

// newViper returns a viper instance reading CONTOURFILL_* variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CONTOURFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", frame.FormatBGR24.String())
	v.SetDefault("max-frames", 0)
	v.SetDefault("width", 0)
	v.SetDefault("height", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("log-level", logrus.InfoLevel.String())
	return v
}

// loadOptions resolves and validates the configuration held by v.
func loadOptions(v *viper.Viper) (Options, error) {
	opts := Options{
		Input:     v.GetString("input"),
		Output:    v.GetString("output"),
		MaxFrames: v.GetInt("max-frames"),
		Width:     v.GetInt("width"),
		Height:    v.GetInt("height"),
		Seed:      v.GetUint64("seed"),
	}

	format, ok := frame.ParseFormat(v.GetString("format"))
	if !ok || !format.Supported() {
		return Options{}, errors.Wrapf(frame.ErrUnsupportedFormat, "--format %q, want one of %v",
			v.GetString("format"), frame.SupportedFormats())
	}
	opts.Format = format

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return Options{}, errors.Wrap(err, "--log-level")
	}
	opts.LogLevel = level

	if opts.MaxFrames < 0 {
		return Options{}, errors.Errorf("--max-frames must not be negative, got %d", opts.MaxFrames)
	}
	if opts.Width < 0 || opts.Height < 0 || (opts.Width == 0) != (opts.Height == 0) {
		return Options{}, errors.Errorf("--width and --height must be set together and positive, got %dx%d",
			opts.Width, opts.Height)
	}

	if opts.Input == "" {
		return Options{}, errors.New("--input is required")
	}
	if opts.Output == "" {
		return Options{}, errors.New("--output is required")
	}

	if opts.InputType, err = validateFile(opts.Input, true); err != nil {
		return Options{}, errors.Wrap(err, "input")
	}
	if opts.OutputType, err = validateFile(opts.Output, false); err != nil {
		return Options{}, errors.Wrap(err, "output")
	}
	if opts.InputType == MediaImage && opts.OutputType == MediaVideo {
		return Options{}, errors.New("cannot write a video from a still image")
	}
	return opts, nil
}

// validateFile resolves the media type of path from its extension. Inputs
// must also exist.
func validateFile(path string, mustExist bool) (MediaType, error) {
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			return 0, errors.Wrapf(err, "file not found: %s", path)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedVideoExtensions {
		if ext == e {
			return MediaVideo, nil
		}
	}
	for _, e := range supportedImageExtensions {
		if ext == e {
			return MediaImage, nil
		}
	}
	return 0, errors.Errorf("unsupported file extension %q, supported: %v %v",
		ext, supportedImageExtensions, supportedVideoExtensions)
}
