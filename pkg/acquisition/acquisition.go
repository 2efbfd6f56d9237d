// Package acquisition defines the structured records produced by the
// acquisition readers and consumed by the metadata synthesizers.
//
// A Descriptor is a closed sum type: it is either an *Anatomical image or a
// *Recording. Readers construct exactly one Descriptor per acquisition file and
// nothing downstream mutates it.
package acquisition

import (
	"context"
	"strings"

	"github.com/agentstation/bidsify/pkg/errors"
)

// Kind identifies the variant of a Descriptor.
type Kind int

// Kind constants.
const (
	KindUnknown Kind = iota
	KindAnatomical
	KindRecording
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAnatomical:
		return "anatomical"
	case KindRecording:
		return "recording"
	}
	return "unknown"
}

// ParseKind parses the names accepted in descriptor files and on the command line.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anatomical", "anat", "mri":
		return KindAnatomical, nil
	case "recording", "meg", "eeg":
		return KindRecording, nil
	}
	return KindUnknown, errors.NewValidationError("kind", s, "must be one of anatomical, recording")
}

// Descriptor is the result of reading one acquisition file.
type Descriptor interface {
	// Kind reports which variant the descriptor is.
	Kind() Kind
	// SourceFormat reports the on-disk format the descriptor was read from.
	SourceFormat() Format

	descriptor()
}

// VoxelHeader holds the image geometry of an anatomical acquisition.
type VoxelHeader struct {
	// Dim holds the image dimensions, fastest varying first.
	Dim []int
	// PixDim holds the voxel size along each dimension.
	PixDim []float64
	// SpatialUnits is the unit of PixDim for the spatial dimensions ("mm", "m", "um").
	SpatialUnits string
	// DataType names the voxel storage type ("int16", "float32", ...).
	DataType string
	// Description is the free-text description stored in the header.
	Description string
}

// Anatomical is an anatomical (MRI) image with an optional calibration record,
// the scanner metadata that accompanies the image outside of its header.
type Anatomical struct {
	Format      Format
	Voxel       VoxelHeader
	Calibration map[string]any
}

// Kind implements Descriptor.
func (a *Anatomical) Kind() Kind { return KindAnatomical }

// SourceFormat implements Descriptor.
func (a *Anatomical) SourceFormat() Format { return a.Format }

func (a *Anatomical) descriptor() {}

// HasCalibration reports whether a calibration record was read.
func (a *Anatomical) HasCalibration() bool {
	return len(a.Calibration) > 0
}

// RawEvent is one event as decoded from the recording. Nil fields were
// absent in the source.
type RawEvent struct {
	// Type is the event label, e.g. "trigger" or "UPPT001".
	Type string
	// Value is the event value, a string or a number.
	Value any
	// Sample is the 1-based sample index of the event onset.
	Sample *int64
	// Duration is the event duration in samples.
	Duration *float64
}

// Recording is an electrophysiological recording (MEG, EEG).
type Recording struct {
	Format Format

	// SampleRate is the sampling frequency in Hz.
	SampleRate float64
	// ChannelCount is the number of channels; every per-channel slice that is
	// not empty has exactly this length, in acquisition channel order.
	ChannelCount  int
	ChannelLabels []string
	ChannelTypes  []string
	ChannelUnits  []string

	// EpochCount is the number of trials; 1 for a continuous recording.
	EpochCount int
	// SamplesPerEpoch is the number of samples in each trial.
	SamplesPerEpoch int

	Events []RawEvent
}

// Kind implements Descriptor.
func (r *Recording) Kind() Kind { return KindRecording }

// SourceFormat implements Descriptor.
func (r *Recording) SourceFormat() Format { return r.Format }

func (r *Recording) descriptor() {}

// Validate checks the internal consistency of the recording.
func (r *Recording) Validate() error {
	if r.SampleRate <= 0 {
		return errors.NewValidationError("sample_rate", r.SampleRate, "must be positive")
	}
	if r.ChannelCount < 0 {
		return errors.NewValidationError("channel_count", r.ChannelCount, "must not be negative")
	}
	columns := []struct {
		name   string
		values []string
	}{
		{"channel_labels", r.ChannelLabels},
		{"channel_types", r.ChannelTypes},
		{"channel_units", r.ChannelUnits},
	}
	for _, c := range columns {
		if len(c.values) != 0 && len(c.values) != r.ChannelCount {
			return errors.NewLengthMismatchError(c.name, r.ChannelCount, len(c.values))
		}
	}
	if r.EpochCount < 0 || r.SamplesPerEpoch < 0 {
		return errors.NewValidationError("epochs", r.EpochCount, "epoch count and length must not be negative")
	}
	return nil
}

// Reader reads an acquisition file into a Descriptor.
type Reader interface {
	Read(ctx context.Context, path string) (Descriptor, error)
}

// ReaderFunc allows functions to implement Reader.
type ReaderFunc func(ctx context.Context, path string) (Descriptor, error)

// Read implements the Reader interface.
func (f ReaderFunc) Read(ctx context.Context, path string) (Descriptor, error) {
	return f(ctx, path)
}

// CalibrationReader reads the calibration record that accompanies an
// anatomical image. A missing file is reported with errors.ErrNotFound.
type CalibrationReader interface {
	ReadCalibration(ctx context.Context, path string) (map[string]any, error)
}
