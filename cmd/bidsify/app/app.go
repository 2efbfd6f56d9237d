// Package app provides the application context and dependency management
// for the bidsify CLI: configuration, logging and the converter client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/bidsify"
	"github.com/agentstation/bidsify/cmd/application"
	"github.com/agentstation/bidsify/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App represents the bidsify application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Converter client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client bidsify.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the default locations; a --config flag
// reloads it before the command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Client returns the converter client. Without options the client built
// from the configuration is cached and reused; with options a new client
// is created.
func (a *App) Client(opts ...bidsify.Option) (bidsify.Client, error) {
	if len(opts) > 0 {
		client, err := bidsify.New(append(a.clientOptions(), opts...)...)
		if err != nil {
			return nil, errors.NewConfigError("client", "creating converter", err)
		}
		return client, nil
	}

	a.mu.RLock()
	if a.client != nil {
		client := a.client
		a.mu.RUnlock()
		return client, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	client, err := bidsify.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("client", "creating converter", err)
	}
	a.client = client
	return client, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// clientOptions constructs converter options from the app configuration.
func (a *App) clientOptions() []bidsify.Option {
	opts := []bidsify.Option{bidsify.WithLogger(a.logger)}

	if a.config.Options != nil {
		opts = append(opts, bidsify.WithOptions(a.config.Options))
	}
	if a.config.OutputDir != "" {
		opts = append(opts, bidsify.WithOutputDir(a.config.OutputDir))
	}
	if a.config.CalibrationPath != "" {
		opts = append(opts, bidsify.WithCalibrationPath(a.config.CalibrationPath))
	}
	if a.config.DryRun {
		opts = append(opts, bidsify.WithDryRun(true))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom converter client (useful for testing).
func WithClient(client bidsify.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
