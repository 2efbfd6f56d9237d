package bidsify

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/reconcile"
	"github.com/agentstation/bidsify/pkg/schema"
	"github.com/agentstation/bidsify/pkg/sidecar"
	"github.com/agentstation/bidsify/pkg/synth"
	"github.com/agentstation/bidsify/pkg/tables"
)

// Converter converts acquisitions into sidecar files.
type Converter interface {
	// Convert reads the acquisition at path and writes its sidecars.
	Convert(ctx context.Context, path string) (*Result, error)

	// Inspect runs a conversion up to, but not including, the commit.
	// Nothing is read from or written to the sidecar locations.
	Inspect(ctx context.Context, path string) (*Result, error)
}

// Result describes one conversion.
type Result struct {
	RunID  string
	Path   string
	Kind   acquisition.Kind
	Format acquisition.Format
	Paths  sidecar.Paths

	Metadata   schema.Record
	Provenance reconcile.Provenance

	// Channels and Events are nil when the kind has no tables or there is
	// nothing to write.
	Channels  *tables.Table
	Events    *tables.Table
	EventMode tables.EventMode
	Warnings  []tables.Warning

	// Outcomes lists what happened to each sidecar. Empty for Inspect.
	Outcomes []sidecar.Outcome
}

// Convert implements Converter.
func (c *client) Convert(ctx context.Context, path string) (*Result, error) {
	ctx = c.context(ctx, path)
	logger := logging.FromContext(ctx)
	start := time.Now()

	res, plan, err := c.build(ctx, path)
	if err != nil {
		logger.Error().Err(err).Msg("Conversion failed")
		return nil, err
	}

	outcomes, err := plan.Commit(ctx)
	res.Outcomes = outcomes
	c.hooks.triggerSidecar(outcomes)
	if err != nil {
		logger.Error().Err(err).Msg("Conversion failed")
		return res, err
	}

	written := 0
	for _, o := range outcomes {
		if o.Action == sidecar.ActionWritten {
			written++
		}
	}
	logger.Info().
		Str("kind", res.Kind.String()).
		Int("sidecars", written).
		Dur("elapsed", time.Since(start)).
		Msg("Converted acquisition")
	return res, nil
}

// Inspect implements Converter.
func (c *client) Inspect(ctx context.Context, path string) (*Result, error) {
	ctx = c.context(ctx, path)
	res, _, err := c.build(ctx, path)
	return res, err
}

func (c *client) context(ctx context.Context, path string) context.Context {
	if c.options.logger != nil && !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, c.options.logger)
	}
	ctx = logging.WithRunID(ctx, logging.NewRunID())
	return logging.WithAcquisition(ctx, path)
}

// build reads the acquisition, synthesizes its metadata, builds its tables
// and plans the sidecar writes.
func (c *client) build(ctx context.Context, path string) (*Result, *sidecar.Plan, error) {
	cfg := c.options.config

	desc, err := c.options.reader.Read(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	ctx = logging.WithKind(ctx, desc.Kind().String())
	logger := logging.FromContext(ctx)
	logger.Debug().Str("format", string(desc.SourceFormat())).Msg("Read acquisition")

	syn, err := synth.Synthesize(ctx, desc, cfg)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{
		RunID:      logging.RunID(ctx),
		Path:       path,
		Kind:       desc.Kind(),
		Format:     desc.SourceFormat(),
		Paths:      sidecar.PathsFor(path, c.options.outputDir),
		Metadata:   syn.Metadata,
		Provenance: syn.Provenance,
	}
	plan := sidecar.NewPlan(sidecar.WithDryRun(c.options.dryRun))
	kinds := schema.KindsFor(desc.Kind())

	switch d := desc.(type) {
	case *acquisition.Anatomical:
		plan.AddMetadata(res.Paths.Metadata, kinds, res.Metadata, cfg.Anat.Enabled())

	case *acquisition.Recording:
		plan.AddMetadata(res.Paths.Metadata, kinds, res.Metadata, cfg.MEG.Enabled())

		if cfg.Channels.Enabled() {
			ct, err := tables.BuildChannels(d, cfg.Channels)
			if err != nil {
				return nil, nil, err
			}
			res.Channels = ct.Table()
			logger.Debug().Msgf("Built channel table with %s rows", humanize.Comma(int64(len(ct.Rows))))
		}
		plan.AddTable(res.Paths.Channels, res.Channels, cfg.Channels.Enabled())

		if cfg.Events.Enabled() {
			res.EventMode = tables.SelectEventMode(cfg.Events)
			res.Events, res.Warnings, err = tables.BuildEvents(ctx, d, cfg.Events)
			if err != nil {
				return nil, nil, err
			}
			c.hooks.triggerWarnings(path, res.Warnings)
		}
		plan.AddTable(res.Paths.Events, res.Events, cfg.Events.Enabled())

	default:
		return nil, nil, errors.NewUnsupportedFormatError(path, string(desc.SourceFormat()))
	}

	return res, plan, nil
}
