package synth_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/options"
	"github.com/agentstation/bidsify/pkg/reconcile"
	"github.com/agentstation/bidsify/pkg/schema"
	"github.com/agentstation/bidsify/pkg/synth"
)

func ctfRecording() *acquisition.Recording {
	types := make([]string, 0, 280)
	for i := 0; i < 275; i++ {
		types = append(types, "megmag")
	}
	types = append(types, "EEG", "eog", "refgrad", "UPPT", "headloc")
	return &acquisition.Recording{
		Format:          acquisition.FormatCTF,
		SampleRate:      1200,
		ChannelCount:    len(types),
		ChannelTypes:    types,
		EpochCount:      1,
		SamplesPerEpoch: 2400,
	}
}

func TestSynthesizeAnatomicalWithoutCalibration(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	opts := &options.Options{
		General: map[string]any{"InstitutionName": "X", "SamplingFrequency": 600},
		Anat:    options.Metadata{Fields: map[string]any{"MagneticFieldStrength": 3}},
	}
	res, err := synth.Synthesize(ctx, &acquisition.Anatomical{Format: acquisition.FormatNIfTI}, opts)
	require.NoError(t, err)

	want := schema.Record{"MagneticFieldStrength": 3.0, "InstitutionName": "X"}
	if diff := cmp.Diff(want, res.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, acquisition.KindAnatomical, res.Kind)
	assert.Zero(t, res.Provenance.Counts()[reconcile.SourceCalibration])
	assert.True(t, tl.Contains("No calibration record"))
}

func TestSynthesizeAnatomicalDropsMistypedCalibration(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	anat := &acquisition.Anatomical{
		Format: acquisition.FormatNIfTI,
		Calibration: map[string]any{
			"MagneticFieldStrength": "3T",
			"EchoTime":              0.003,
			"ImageType":             "ORIGINAL",
		},
	}
	opts := &options.Options{Anat: options.Metadata{Fields: map[string]any{"ImageType": []any{"DERIVED"}}}}

	res, err := synth.Synthesize(ctx, anat, opts)
	require.NoError(t, err)

	want := schema.Record{"EchoTime": 0.003, "ImageType": []any{"DERIVED"}}
	if diff := cmp.Diff(want, res.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, tl.CountLevel(zerolog.WarnLevel))
	assert.True(t, tl.Contains(`"fields":["ImageType","MagneticFieldStrength"]`))
	require.NoError(t, schema.Validate(res.Metadata, schema.KindsFor(acquisition.KindAnatomical)...))
}

func TestSynthesizeAnatomicalPrecedence(t *testing.T) {
	anat := &acquisition.Anatomical{
		Format: acquisition.FormatNIfTI,
		Calibration: map[string]any{
			"MagneticFieldStrength": 1.5,
			"EchoTime":              0.003,
			"Manufacturer":          "Siemens",
			"PatientName":           "ignored",
		},
	}
	opts := &options.Options{
		General: map[string]any{"MagneticFieldStrength": 3, "Manufacturer": "GE"},
		Anat:    options.Metadata{Fields: map[string]any{"Manufacturer": "Philips"}},
	}

	res, err := synth.Synthesize(context.Background(), anat, opts)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Metadata["MagneticFieldStrength"])
	assert.Equal(t, 0.003, res.Metadata["EchoTime"])
	assert.Equal(t, "Philips", res.Metadata["Manufacturer"])
	assert.NotContains(t, res.Metadata, "PatientName")

	src, _ := res.Provenance.SourceOf("EchoTime")
	assert.Equal(t, reconcile.SourceCalibration, src)
}

func TestSynthesizeRecording(t *testing.T) {
	res, err := synth.Synthesize(context.Background(), ctfRecording(), nil)
	require.NoError(t, err)

	md := res.Metadata
	assert.Equal(t, 1200.0, md["SamplingFrequency"])
	assert.Equal(t, 275, md["MEGChannelCount"])
	assert.Equal(t, 1, md["MEGREFChannelCount"])
	assert.Equal(t, 1, md["EEGChannelCount"])
	assert.Equal(t, 1, md["EOGChannelCount"])
	assert.Equal(t, 0, md["ECGChannelCount"])
	assert.Equal(t, 0, md["EMGChannelCount"])
	assert.Equal(t, 0, md["TriggerChannelCount"])
	assert.Equal(t, 2, md["MiscChannelCount"], "unmatched types count as misc")
	assert.Equal(t, 2.0, md["RecordingDuration"])
	assert.Equal(t, 2.0, md["EpochLength"])
	assert.Equal(t, "continuous", md["RecordingType"])
	assert.Equal(t, true, md["ContinuousHeadLocalization"])
	assert.Equal(t, "CTF", md["Manufacturer"])
	assert.Equal(t, "CTF-275", md["ManufacturersModelName"])
}

func TestSynthesizeRecordingCallerWins(t *testing.T) {
	opts := &options.Options{
		General: map[string]any{"PowerLineFrequency": 60, "Manufacturer": "Acme", "TaskName": "general"},
		MEG:     options.Metadata{Fields: map[string]any{"PowerLineFrequency": 50, "TaskName": ""}},
	}
	res, err := synth.Synthesize(context.Background(), ctfRecording(), opts)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Metadata["PowerLineFrequency"])
	assert.Equal(t, "Acme", res.Metadata["Manufacturer"])
	assert.Equal(t, "general", res.Metadata["TaskName"], "unset kind-specific value does not mask the generic one")

	src, _ := res.Provenance.SourceOf("PowerLineFrequency")
	assert.Equal(t, reconcile.SourceRecording, src)
	assert.Contains(t, res.Provenance.Conflicts(), "Manufacturer")
}

func TestSynthesizeEpochedEDF(t *testing.T) {
	rec := &acquisition.Recording{
		Format:          acquisition.FormatEDF,
		SampleRate:      256,
		ChannelCount:    2,
		ChannelTypes:    []string{"eeg", "eeg"},
		EpochCount:      10,
		SamplesPerEpoch: 512,
	}
	res, err := synth.Synthesize(context.Background(), rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "epoched", res.Metadata["RecordingType"])
	assert.Equal(t, 20.0, res.Metadata["RecordingDuration"])
	assert.NotContains(t, res.Metadata, "Manufacturer")
	assert.Equal(t, 0, res.Metadata["MEGChannelCount"])
}

func TestDeriveDuration(t *testing.T) {
	tests := []struct {
		name             string
		epochs, samples  int
		duration, length float64
		recordingType    string
	}{
		{"continuous", 1, 1200, 2, 2, "continuous"},
		{"no epochs", 0, 500, 0, 500.0 / 600, "continuous"},
		{"no samples", 3, 0, 0, 0, "epoched"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := synth.Derive(&acquisition.Recording{SampleRate: 600, EpochCount: tt.epochs, SamplesPerEpoch: tt.samples})
			assert.InDelta(t, tt.duration, md["RecordingDuration"], 1e-12)
			assert.InDelta(t, tt.length, md["EpochLength"], 1e-12)
			assert.Equal(t, tt.recordingType, md["RecordingType"])
		})
	}

	md := synth.Derive(&acquisition.Recording{EpochCount: 1, SamplesPerEpoch: 10})
	assert.NotContains(t, md, "RecordingDuration")
}

func TestSynthesizeInvalidRecording(t *testing.T) {
	_, err := synth.Synthesize(context.Background(), &acquisition.Recording{SampleRate: 0}, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestSynthesizeUnsupported(t *testing.T) {
	_, err := synth.Synthesize(context.Background(), nil, nil)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestChannelCountsCaseInsensitive(t *testing.T) {
	counts := synth.ChannelCounts([]string{"MEGGRAD", "MegPlanar", "Trigger", "ECG", "emg"})
	assert.Equal(t, 2, counts["MEGChannelCount"])
	assert.Equal(t, 1, counts["TriggerChannelCount"])
	assert.Equal(t, 1, counts["ECGChannelCount"])
	assert.Equal(t, 1, counts["EMGChannelCount"])
	assert.Equal(t, 0, counts["MiscChannelCount"])
}
