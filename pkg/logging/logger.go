// Package logging provides structured logging for bidsify using zerolog.
// Console output is used when stderr is a terminal, JSON otherwise.
//
// Every conversion logs through the context logger, which carries the run
// id, the acquisition path and, once known, the acquisition kind:
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	ctx = logging.WithAcquisition(ctx, path)
//	logging.FromContext(ctx).Warn().Int("rows", n).Msg("Dropping trial offsets")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when a context carries no logger.
var defaultLogger = NewLoggerFromConfig(EnvConfig())

// EnvConfig returns the default configuration adjusted by the LOG_LEVEL,
// LOG_FORMAT, LOG_OUTPUT and NO_COLOR environment variables.
func EnvConfig() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Warn starts a new warning level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
