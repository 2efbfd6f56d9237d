package sidecar

import "github.com/rs/zerolog"

// Options is the configuration of a Plan.
type Options struct {
	dryRun bool
	logger *zerolog.Logger
}

// DryRun reports whether writes are only logged.
func (o *Options) DryRun() bool {
	return o.dryRun
}

// Option configures a Plan.
type Option func(*Options)

// WithDryRun runs every check but writes nothing.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.dryRun = dryRun
	}
}

// WithLogger sets the logger used instead of the context logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
