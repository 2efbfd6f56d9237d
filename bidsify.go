// Package bidsify converts one neuroimaging acquisition into its sidecar
// files: a metadata document and, for recordings, a channel table and an
// event table.
//
// A conversion reads the acquisition, synthesizes its metadata from the
// acquisition itself, any calibration record and the caller options, builds
// the tables, and writes everything through one sidecar plan. Nothing is
// written when any step fails.
//
// Example usage:
//
//	client, err := bidsify.New(
//	    bidsify.WithOptions(opts),
//	    bidsify.WithOutputDir("/data/bids/sub-01/meg"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Convert(ctx, "/data/raw/sub-01_task-rest.acq.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range result.Outcomes {
//	    fmt.Println(o.Action, o.Path)
//	}
package bidsify

import (
	"github.com/agentstation/bidsify/internal/readers/calibration"
	"github.com/agentstation/bidsify/internal/readers/nifti"
	"github.com/agentstation/bidsify/internal/readers/registry"
)

// Compile-time interface checks.
var (
	_ Converter = (*client)(nil)
	_ Hooks     = (*client)(nil)
)

// Client converts acquisitions. A Client holds no state between
// conversions besides its configuration and hooks.
type Client interface {
	Converter
	Hooks
}

type client struct {
	options *options
	hooks   *hooks
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if o.reader == nil {
		cr := o.calibrationReader
		if cr == nil {
			cr = calibration.New()
		}
		niftiOpts := []nifti.Option{nifti.WithCalibrationReader(cr)}
		if o.calibrationPath != "" {
			niftiOpts = append(niftiOpts, nifti.WithCalibrationPath(o.calibrationPath))
		}
		o.reader = registry.Default(niftiOpts...)
	}
	return &client{options: o, hooks: newHooks()}, nil
}
