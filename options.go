package bidsify

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	caller "github.com/agentstation/bidsify/pkg/options"
)

type options struct {
	reader            acquisition.Reader
	calibrationReader acquisition.CalibrationReader
	calibrationPath   string
	outputDir         string
	dryRun            bool
	config            *caller.Options
	logger            *zerolog.Logger
}

func defaultOptions() *options {
	return &options{config: &caller.Options{}}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(fns ...Option) (*options, error) {
	for _, opt := range fns {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(fns ...Option) (*options, error) {
	return defaultOptions().apply(fns...)
}

// WithReader sets the acquisition reader, replacing the built-in readers.
func WithReader(r acquisition.Reader) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{Field: "reader", Message: "cannot be nil"}
		}
		o.reader = r
		return nil
	}
}

// WithCalibrationReader sets the reader of anatomical calibration records.
// It has no effect together with WithReader.
func WithCalibrationReader(r acquisition.CalibrationReader) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{Field: "calibration_reader", Message: "cannot be nil"}
		}
		o.calibrationReader = r
		return nil
	}
}

// WithCalibrationPath reads the calibration record from path instead of
// looking for one next to the image.
func WithCalibrationPath(path string) Option {
	return func(o *options) error {
		o.calibrationPath = path
		return nil
	}
}

// WithOutputDir writes sidecars into dir instead of next to the acquisition.
func WithOutputDir(dir string) Option {
	return func(o *options) error {
		o.outputDir = dir
		return nil
	}
}

// WithDryRun runs every step and check but writes nothing.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithOptions sets the caller configuration.
func WithOptions(cfg *caller.Options) Option {
	return func(o *options) error {
		if cfg == nil {
			return &errors.ValidationError{Field: "options", Message: "cannot be nil"}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
