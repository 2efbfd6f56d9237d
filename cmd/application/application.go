// Package application provides the application interface for bidsify commands.
//
// Commands accept this interface rather than the concrete App type, so
// they can be tested against internal/cmd/application.Mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            _, err = client.Convert(cmd.Context(), args[0])
//	            return err
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/bidsify"
)

// Application provides what commands need from the running CLI.
type Application interface {
	// Client returns a converter configured from the loaded configuration.
	// Extra options are applied after the configured ones.
	Client(opts ...bidsify.Option) (bidsify.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json,
	// yaml or markdown). Empty means auto-detect.
	OutputFormat() string

	// NoColor reports whether colored terminal output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
