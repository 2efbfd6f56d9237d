package bidsify_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bidsify"
	"github.com/agentstation/bidsify/internal/utils/ptr"
	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/options"
	"github.com/agentstation/bidsify/pkg/sidecar"
	"github.com/agentstation/bidsify/pkg/tables"
)

const ctfDescriptor = `
kind: recording
format: ctf
sample_rate: 1200
samples_per_epoch: 1200
channels:
  - {label: MLC11, type: megmag, unit: T}
  - {label: MLC12, type: megmag, unit: T}
  - {label: MLC13, type: megmag, unit: T}
  - {label: EOG001, type: eog, unit: V}
  - {label: ECG001, type: ecg, unit: V}
events:
  - {type: trigger, value: 1, sample: 601}
`

func writeDescriptor(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sub-01_task-rest_meg.acq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ctfDescriptor), 0o644))
	return path
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestConvertRecording(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)

	cfg := &options.Options{
		General:  map[string]any{"InstitutionName": "X"},
		MEG:      options.Metadata{Fields: map[string]any{"PowerLineFrequency": 50}},
		Channels: options.Channels{Type: []any{nil, nil, "eeg", nil, nil}},
		Events:   options.Events{Trl: [][]float64{{1, 1200, 0}}},
	}
	client, err := bidsify.New(bidsify.WithOptions(cfg))
	require.NoError(t, err)

	var outcomes []sidecar.Outcome
	client.OnSidecar(func(o sidecar.Outcome) { outcomes = append(outcomes, o) })

	res, err := client.Convert(context.Background(), acq)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, acquisition.KindRecording, res.Kind)
	assert.Equal(t, tables.EventModeTrl, res.EventMode)
	require.Len(t, outcomes, 3)

	md := readJSON(t, filepath.Join(dir, "sub-01_task-rest_meg.json"))
	assert.Equal(t, "X", md["InstitutionName"])
	assert.Equal(t, 50.0, md["PowerLineFrequency"])
	assert.Equal(t, 1200.0, md["SamplingFrequency"])
	assert.Equal(t, 3.0, md["MEGChannelCount"])
	assert.Equal(t, "CTF", md["Manufacturer"])

	channels, err := os.ReadFile(filepath.Join(dir, "sub-01_task-rest_meg_channels.tsv"))
	require.NoError(t, err)
	assert.Contains(t, string(channels), "MLC13\teeg\tT\tn/a\t")

	events, err := os.ReadFile(filepath.Join(dir, "sub-01_task-rest_meg_events.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "onset\tduration\n0\t1\n", string(events))
}

func TestConvertRefusesExistingTable(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)
	channels := filepath.Join(dir, "sub-01_task-rest_meg_channels.tsv")
	require.NoError(t, os.WriteFile(channels, []byte("name\ttype\nedited\tmisc\n"), 0o644))

	client, err := bidsify.New()
	require.NoError(t, err)
	_, err = client.Convert(context.Background(), acq)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	assert.NoFileExists(t, filepath.Join(dir, "sub-01_task-rest_meg.json"))
	assert.NoFileExists(t, filepath.Join(dir, "sub-01_task-rest_meg_events.tsv"))
	got, err := os.ReadFile(channels)
	require.NoError(t, err)
	assert.Equal(t, "name\ttype\nedited\tmisc\n", string(got))
}

func TestConvertMergesExistingMetadata(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub-01_task-rest_meg.json"), []byte(`{"InstitutionName":"X"}`), 0o644))

	cfg := &options.Options{
		Channels: options.Channels{Write: ptr.Bool(false)},
		Events:   options.Events{Write: ptr.Bool(false)},
	}
	client, err := bidsify.New(bidsify.WithOptions(cfg))
	require.NoError(t, err)
	_, err = client.Convert(context.Background(), acq)
	require.NoError(t, err)

	md := readJSON(t, filepath.Join(dir, "sub-01_task-rest_meg.json"))
	assert.Equal(t, "X", md["InstitutionName"])
	assert.Equal(t, 1200.0, md["SamplingFrequency"])
	assert.NoFileExists(t, filepath.Join(dir, "sub-01_task-rest_meg_channels.tsv"))
}

func TestConvertAnatomical(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	img := filepath.Join(dir, "sub-01_T1w.nii")
	require.NoError(t, os.WriteFile(img, niftiHeader(t), 0o644))
	out := filepath.Join(dir, "bids")

	cfg := &options.Options{
		General: map[string]any{"InstitutionName": "X"},
		Anat:    options.Metadata{Fields: map[string]any{"MagneticFieldStrength": 3}},
	}
	client, err := bidsify.New(bidsify.WithOptions(cfg), bidsify.WithOutputDir(out))
	require.NoError(t, err)
	res, err := client.Convert(context.Background(), img)
	require.NoError(t, err)
	assert.Nil(t, res.Channels)
	assert.Nil(t, res.Events)

	md := readJSON(t, filepath.Join(out, "sub-01_T1w.json"))
	assert.Equal(t, map[string]any{"InstitutionName": "X", "MagneticFieldStrength": 3.0}, md)
}

func TestConvertAnatomicalMistypedCalibration(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	img := filepath.Join(dir, "sub-01_T1w.nii")
	require.NoError(t, os.WriteFile(img, niftiHeader(t), 0o644))
	calib := `{"MagneticFieldStrength":"3T","EchoTime":0.003,"ImageType":"ORIGINAL"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub-01_T1w.calib.json"), []byte(calib), 0o644))

	client, err := bidsify.New()
	require.NoError(t, err)
	_, err = client.Convert(context.Background(), img)
	require.NoError(t, err)

	md := readJSON(t, filepath.Join(dir, "sub-01_T1w.json"))
	assert.Equal(t, map[string]any{"EchoTime": 0.003}, md)
}

func TestConvertPrefersContextLogger(t *testing.T) {
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)

	fromCtx := logging.NewTestLogger(t)
	fromOpt := logging.NewTestLogger(t)
	client, err := bidsify.New(bidsify.WithLogger(fromOpt.Logger), bidsify.WithDryRun(true))
	require.NoError(t, err)

	ctx := logging.WithLogger(context.Background(), fromCtx.Logger)
	_, err = client.Convert(ctx, acq)
	require.NoError(t, err)
	assert.NotEmpty(t, fromCtx.Lines())
	assert.Empty(t, fromOpt.Lines())

	_, err = client.Convert(context.Background(), acq)
	require.NoError(t, err)
	assert.NotEmpty(t, fromOpt.Lines())
}

func TestInspectWritesNothing(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)

	client, err := bidsify.New()
	require.NoError(t, err)
	res, err := client.Inspect(context.Background(), acq)
	require.NoError(t, err)
	assert.Equal(t, tables.EventModeRaw, res.EventMode)
	require.NotNil(t, res.Events)
	assert.Equal(t, [][]string{{"0.5", "", "601", "trigger", "1"}}, res.Events.Rows)
	assert.Len(t, res.Channels.Rows, 5)
	assert.Empty(t, res.Outcomes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertUnsupported(t *testing.T) {
	client, err := bidsify.New()
	require.NoError(t, err)
	_, err = client.Convert(context.Background(), "/data/sub-01_meg.fif")
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestConvertWarnings(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	acq := writeDescriptor(t, dir)

	cfg := &options.Options{Events: options.Events{Trl: [][]float64{{1, 600, 10}}}}
	client, err := bidsify.New(bidsify.WithOptions(cfg), bidsify.WithDryRun(true))
	require.NoError(t, err)
	var warned []string
	client.OnWarning(func(_ string, w tables.Warning) { warned = append(warned, w.Message) })

	res, err := client.Convert(context.Background(), acq)
	require.NoError(t, err)
	assert.Len(t, warned, 1)
	for _, o := range res.Outcomes {
		assert.Equal(t, sidecar.ActionDryRun, o.Action)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := bidsify.New(bidsify.WithOptions(&options.Options{Events: options.Events{
		Trl:            [][]float64{{1, 2, 0}},
		TrialTableFile: "trials.tsv",
	}}))
	assert.Error(t, err)

	_, err = bidsify.New(bidsify.WithReader(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestConvertWithReader(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	rec := &acquisition.Recording{
		Format:        acquisition.FormatEDF,
		SampleRate:    256,
		ChannelCount:  2,
		ChannelLabels: []string{"Fz", "Cz"},
		ChannelTypes:  []string{"eeg", "eeg"},
	}
	reader := acquisition.ReaderFunc(func(_ context.Context, _ string) (acquisition.Descriptor, error) {
		return rec, nil
	})

	cfg := &options.Options{Channels: options.Channels{Type: []any{"eog"}}}
	client, err := bidsify.New(bidsify.WithReader(reader), bidsify.WithOptions(cfg))
	require.NoError(t, err)

	_, err = client.Convert(context.Background(), filepath.Join(dir, "sub-01_eeg.edf"))
	require.Error(t, err)
	assert.True(t, errors.IsLengthMismatch(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	cfg.Channels.Type = []any{"eog", nil}
	client, err = bidsify.New(bidsify.WithReader(reader), bidsify.WithOptions(cfg))
	require.NoError(t, err)
	res, err := client.Convert(context.Background(), filepath.Join(dir, "sub-01_eeg.edf"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fz", "eog"}, res.Channels.Rows[0][:2])
	assert.Equal(t, []string{"Cz", "eeg"}, res.Channels.Rows[1][:2])
	assert.Equal(t, 2, res.Metadata["EEGChannelCount"])
	assert.FileExists(t, filepath.Join(dir, "sub-01_eeg.json"))
}

// niftiHeader returns a minimal little-endian NIfTI-1 header.
func niftiHeader(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 348)
	binary.LittleEndian.PutUint32(buf[0:], 348)
	binary.LittleEndian.PutUint16(buf[40:], 3)
	binary.LittleEndian.PutUint16(buf[42:], 64)
	binary.LittleEndian.PutUint16(buf[44:], 64)
	binary.LittleEndian.PutUint16(buf[46:], 32)
	binary.LittleEndian.PutUint16(buf[70:], 4)
	buf[123] = 2
	copy(buf[344:], "n+1\x00")
	return buf
}
