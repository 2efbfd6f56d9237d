// Package convert provides the convert command.
package convert

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/agentstation/bidsify"
	"github.com/agentstation/bidsify/cmd/application"
	"github.com/agentstation/bidsify/internal/cmd/alerts"
	"github.com/agentstation/bidsify/internal/cmd/output"
	"github.com/agentstation/bidsify/pkg/sidecar"
	"github.com/agentstation/bidsify/pkg/tables"
)

// Flags holds the convert command flags.
type Flags struct {
	OutputDir       string
	DryRun          bool
	CalibrationPath string
}

// AddFlags registers the conversion flags shared by convert and inspect.
func AddFlags(cmd *cobra.Command, f *Flags) {
	cmd.Flags().StringVar(&f.OutputDir, "out-dir", "", "write sidecars into this directory instead of next to the acquisition")
	cmd.Flags().StringVar(&f.CalibrationPath, "calibration", "", "calibration file for anatomical images")
}

// Options returns the client options selected by the flags.
func (f *Flags) Options() []bidsify.Option {
	var opts []bidsify.Option
	if f.OutputDir != "" {
		opts = append(opts, bidsify.WithOutputDir(f.OutputDir))
	}
	if f.CalibrationPath != "" {
		opts = append(opts, bidsify.WithCalibrationPath(f.CalibrationPath))
	}
	if f.DryRun {
		opts = append(opts, bidsify.WithDryRun(true))
	}
	return opts
}

// NewCommand creates the convert command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "convert <acquisition>...",
		GroupID: "core",
		Short:   "Write the BIDS sidecars of one or more acquisitions",
		Args:    cobra.MinimumNArgs(1),
		Example: `  bidsify convert sub-01_T1w.nii.gz
  bidsify convert --config study.yaml sub-01_task-rest_meg.acq.yaml
  bidsify convert --dry-run --out-dir bids/sub-01/eeg sub-01_task-rest_eeg.edf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := output.DetectFormat(app.OutputFormat())
			notices := alerts.NewFormatWriter(cmd.ErrOrStderr(), format, app.NoColor())

			client, err := app.Client(flags.Options()...)
			if err != nil {
				return err
			}
			client.OnWarning(func(path string, w tables.Warning) {
				_ = notices.WriteAlert(alerts.NewWarning("%s", w.Message).
					WithDetails(fmt.Sprintf("%s: %s rows", sidecar.BaseName(path), humanize.Comma(int64(w.Rows)))))
			})

			var results []*bidsify.Result
			for _, path := range args {
				res, err := client.Convert(cmd.Context(), path)
				if err != nil {
					return err
				}
				results = append(results, res)
				_ = notices.WriteAlert(summary(res))
			}

			return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.NewOutcomeList(results...))
		},
	}

	AddFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "run every check but write nothing")

	return cmd
}

// summary describes one finished conversion.
func summary(res *bidsify.Result) *alerts.Alert {
	counts := make(map[sidecar.Action]int)
	for _, o := range res.Outcomes {
		counts[o.Action]++
	}
	name := sidecar.BaseName(res.Path)
	if counts[sidecar.ActionDryRun] > 0 {
		return alerts.NewInfo("Dry run for %s: %d sidecars checked", name, counts[sidecar.ActionDryRun])
	}
	return alerts.NewSuccess("Converted %s: %d written, %d skipped",
		name, counts[sidecar.ActionWritten], counts[sidecar.ActionSkipped])
}
