// Package descriptor reads acquisition descriptor files: the structured
// output of an external vendor decoder, saved as YAML or JSON with a
// .acq.yaml, .acq.yml or .acq.json suffix.
//
// A recording descriptor looks like:
//
//	kind: recording
//	format: ctf
//	sample_rate: 1200
//	epochs: 1
//	samples_per_epoch: 360000
//	channels:
//	  - {label: MLC11, type: megmag, unit: T}
//	events:
//	  - {type: trigger, value: 4, sample: 1201}
//
// An anatomical descriptor carries a voxel header and an optional inline
// calibration record.
package descriptor

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
)

// Suffixes are the file name suffixes handled by the reader.
var Suffixes = []string{".acq.yaml", ".acq.yml", ".acq.json"}

type file struct {
	Kind   string `yaml:"kind"`
	Format string `yaml:"format"`

	SampleRate      float64   `yaml:"sample_rate"`
	Epochs          int       `yaml:"epochs"`
	SamplesPerEpoch int       `yaml:"samples_per_epoch"`
	Channels        []channel `yaml:"channels"`
	Events          []event   `yaml:"events"`

	Voxel       *voxel         `yaml:"voxel"`
	Calibration map[string]any `yaml:"calibration"`
}

type channel struct {
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
	Unit  string `yaml:"unit"`
}

type event struct {
	Type     string   `yaml:"type"`
	Value    any      `yaml:"value"`
	Sample   *int64   `yaml:"sample"`
	Duration *float64 `yaml:"duration"`
}

type voxel struct {
	Dim         []int     `yaml:"dim"`
	PixDim      []float64 `yaml:"pixdim"`
	Units       string    `yaml:"units"`
	DataType    string    `yaml:"datatype"`
	Description string    `yaml:"description"`
}

// Reader reads descriptor files. It implements acquisition.Reader.
type Reader struct{}

// New creates a descriptor reader.
func New() *Reader {
	return &Reader{}
}

// Read implements acquisition.Reader.
func (r *Reader) Read(ctx context.Context, path string) (acquisition.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("acquisition", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(path, data)
}

// Decode parses descriptor content. Path is used in errors only.
func Decode(path string, data []byte) (acquisition.Descriptor, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	format, ok := acquisition.ParseFormat(f.Format)
	if !ok {
		return nil, errors.NewUnsupportedFormatError(path, f.Format)
	}
	kind := format.Kind()
	if f.Kind != "" {
		k, err := acquisition.ParseKind(f.Kind)
		if err != nil {
			return nil, err
		}
		if k != kind {
			return nil, errors.NewValidationError("kind", f.Kind, "does not match format "+string(format))
		}
	}

	if kind == acquisition.KindAnatomical {
		return f.anatomical(format), nil
	}
	rec := f.recording(format)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (f *file) anatomical(format acquisition.Format) *acquisition.Anatomical {
	a := &acquisition.Anatomical{Format: format, Calibration: f.Calibration}
	if f.Voxel != nil {
		a.Voxel = acquisition.VoxelHeader{
			Dim:          f.Voxel.Dim,
			PixDim:       f.Voxel.PixDim,
			SpatialUnits: f.Voxel.Units,
			DataType:     f.Voxel.DataType,
			Description:  f.Voxel.Description,
		}
	}
	return a
}

func (f *file) recording(format acquisition.Format) *acquisition.Recording {
	rec := &acquisition.Recording{
		Format:          format,
		SampleRate:      f.SampleRate,
		ChannelCount:    len(f.Channels),
		EpochCount:      f.Epochs,
		SamplesPerEpoch: f.SamplesPerEpoch,
	}
	if rec.EpochCount == 0 {
		rec.EpochCount = 1
	}
	for _, c := range f.Channels {
		rec.ChannelLabels = append(rec.ChannelLabels, c.Label)
		rec.ChannelTypes = append(rec.ChannelTypes, c.Type)
		rec.ChannelUnits = append(rec.ChannelUnits, c.Unit)
	}
	for _, e := range f.Events {
		rec.Events = append(rec.Events, acquisition.RawEvent{
			Type:     e.Type,
			Value:    e.Value,
			Sample:   e.Sample,
			Duration: e.Duration,
		})
	}
	return rec
}
