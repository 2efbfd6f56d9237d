// Package inspect provides the inspect command.
package inspect

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bidsify/cmd/application"
	"github.com/agentstation/bidsify/cmd/bidsify/cmd/convert"
	"github.com/agentstation/bidsify/internal/cmd/output"
)

// NewCommand creates the inspect command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &convert.Flags{}
	cmd := &cobra.Command{
		Use:     "inspect <acquisition>",
		GroupID: "core",
		Short:   "Show the sidecar contents of an acquisition without writing them",
		Args:    cobra.ExactArgs(1),
		Example: `  bidsify inspect sub-01_task-rest_meg.acq.yaml
  bidsify inspect -o markdown sub-01_task-rest_eeg.edf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client(flags.Options()...)
			if err != nil {
				return err
			}
			res, err := client.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			return formatter.Format(cmd.OutOrStdout(), output.NewReport(res))
		},
	}

	convert.AddFlags(cmd, flags)

	return cmd
}
