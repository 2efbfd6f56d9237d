// Package synth builds the metadata record of one acquisition.
//
// Each descriptor variant has its own synthesis procedure. Both select the
// vocabulary fields out of every source and fold them in a fixed order, so
// the order of the sources is the precedence:
//
//	anatomical: calibration, general, anat
//	recording:  derived, general, meg
package synth

import (
	"context"
	"fmt"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/options"
	"github.com/agentstation/bidsify/pkg/reconcile"
	"github.com/agentstation/bidsify/pkg/schema"
)

// Result is the synthesized metadata of one acquisition.
type Result struct {
	Kind       acquisition.Kind
	Metadata   schema.Record
	Provenance reconcile.Provenance
}

// Synthesize computes the metadata record for desc. Opts may be nil.
func Synthesize(ctx context.Context, desc acquisition.Descriptor, opts *options.Options) (*Result, error) {
	if opts == nil {
		opts = &options.Options{}
	}

	var (
		res *Result
		err error
	)
	switch d := desc.(type) {
	case *acquisition.Anatomical:
		res = anatomical(ctx, d, opts)
	case *acquisition.Recording:
		res, err = recording(d, opts)
	default:
		return nil, errors.NewUnsupportedFormatError("", fmt.Sprintf("%T", desc))
	}
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("kind", res.Kind.String()).
		Int("fields", res.Metadata.Len()).
		Strs("conflicts", res.Provenance.Conflicts()).
		Msg("Synthesized metadata")
	if e := logger.Trace(); e.Enabled() {
		e.Msg("Field provenance:\n" + res.Provenance.String())
	}
	return res, nil
}

func anatomical(ctx context.Context, a *acquisition.Anatomical, opts *options.Options) *Result {
	kinds := schema.KindsFor(acquisition.KindAnatomical)

	var calibration schema.Record
	if a.HasCalibration() {
		calibration = calibrationFields(ctx, a.Calibration, kinds)
	} else {
		logging.FromContext(ctx).Debug().Msg("No calibration record, skipping calibration-derived fields")
	}

	merged, prov := reconcile.Fold(
		reconcile.Source{Name: reconcile.SourceCalibration, Record: calibration},
		reconcile.Source{Name: reconcile.SourceGeneral, Record: schema.Select(opts.General, kinds...)},
		reconcile.Source{Name: reconcile.SourceAnatomical, Record: schema.Select(opts.Anat.Fields, kinds...)},
	)
	return &Result{Kind: acquisition.KindAnatomical, Metadata: merged, Provenance: prov}
}

// calibrationFields selects the vocabulary fields of a calibration record.
// Calibration only supplies defaults, so a value of the wrong type is
// dropped with a warning instead of failing the conversion.
func calibrationFields(ctx context.Context, raw map[string]any, kinds []schema.Kind) schema.Record {
	selected := schema.Select(raw, kinds...)
	kept, dropped, err := schema.Conforming(selected, kinds...)
	if err != nil {
		return selected
	}
	if len(dropped) > 0 {
		logging.FromContext(ctx).Warn().
			Strs("fields", dropped).
			Msg("Ignoring calibration fields of the wrong type")
	}
	return kept
}

func recording(r *acquisition.Recording, opts *options.Options) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	kinds := schema.KindsFor(acquisition.KindRecording)

	merged, prov := reconcile.Fold(
		reconcile.Source{Name: reconcile.SourceDerived, Record: Derive(r)},
		reconcile.Source{Name: reconcile.SourceGeneral, Record: schema.Select(opts.General, kinds...)},
		reconcile.Source{Name: reconcile.SourceRecording, Record: schema.Select(opts.MEG.Fields, kinds...)},
	)
	return &Result{Kind: acquisition.KindRecording, Metadata: merged, Provenance: prov}, nil
}
