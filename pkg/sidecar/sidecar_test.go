package sidecar_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/schema"
	"github.com/agentstation/bidsify/pkg/sidecar"
	"github.com/agentstation/bidsify/pkg/tables"
)

var megKinds = []schema.Kind{schema.KindGeneric, schema.KindRecording}

func eventTable() *tables.Table {
	return &tables.Table{Columns: []string{"onset", "duration"}, Rows: [][]string{{"0", "1"}}}
}

func TestPathsFor(t *testing.T) {
	tests := []struct {
		acq    string
		outDir string
		want   sidecar.Paths
	}{
		{
			acq: "/data/sub-01_task-rest_meg.ds",
			want: sidecar.Paths{
				Metadata: "/data/sub-01_task-rest_meg.json",
				Channels: "/data/sub-01_task-rest_meg_channels.tsv",
				Events:   "/data/sub-01_task-rest_meg_events.tsv",
			},
		},
		{
			acq:    "/data/sub-01_T1w.nii.gz",
			outDir: "/out",
			want: sidecar.Paths{
				Metadata: "/out/sub-01_T1w.json",
				Channels: "/out/sub-01_T1w_channels.tsv",
				Events:   "/out/sub-01_T1w_events.tsv",
			},
		},
		{
			acq:  "rec.acq.yaml",
			want: sidecar.Paths{Metadata: "rec.json", Channels: "rec_channels.tsv", Events: "rec_events.tsv"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.acq, func(t *testing.T) {
			assert.Equal(t, tt.want, sidecar.PathsFor(tt.acq, tt.outDir))
		})
	}
	assert.Equal(t, "sub-01_T1w", sidecar.BaseName("sub-01_T1w.NII"))
}

func TestCommitMergesExistingMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"InstitutionName":"X"}`), 0o644))

	plan := sidecar.NewPlan()
	plan.AddMetadata(path, megKinds, schema.Record{"SamplingFrequency": 1200}, true)
	outcomes, err := plan.Commit(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, sidecar.ActionWritten, outcomes[0].Action)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"InstitutionName":"X","SamplingFrequency":1200}`, string(got))
}

func TestCommitMetadataIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"InstitutionName":"X","Custom":{"a":1}}`), 0o644))
	rec := schema.Record{"SamplingFrequency": 1200.0, "InstitutionName": "Y", "MEGChannelCount": 275}

	run := func() []byte {
		plan := sidecar.NewPlan()
		plan.AddMetadata(path, megKinds, rec, true)
		_, err := plan.Commit(context.Background())
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}
	first := run()
	assert.Equal(t, string(first), string(run()))
	assert.Contains(t, string(first), `"Custom"`)
	assert.Contains(t, string(first), `"InstitutionName": "Y"`)
}

func TestCommitMalformedMetadataIsEmpty(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	path := filepath.Join(t.TempDir(), "rec.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"InstitutionName":`), 0o644))

	plan := sidecar.NewPlan()
	plan.AddMetadata(path, megKinds, schema.Record{"SamplingFrequency": 600}, true)
	_, err := plan.Commit(ctx)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"SamplingFrequency":600}`, string(got))
	assert.Equal(t, 1, tl.CountLevel(zerolog.WarnLevel))
}

func TestCommitDropsEmptyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.json")
	plan := sidecar.NewPlan()
	plan.AddMetadata(path, megKinds, schema.Record{
		"SamplingFrequency": 600,
		"TaskName":          "",
		"SoftwareFilters":   map[string]any{},
		"DewarPosition":     nil,
		"EEGChannelCount":   0,
	}, true)
	_, err := plan.Commit(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"SamplingFrequency":600,"EEGChannelCount":0}`, string(got))
}

func TestCommitRefusesNonEmptyTable(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "rec.json")
	events := filepath.Join(dir, "rec_events.tsv")
	existing := []byte("onset\tduration\n5\t1\n")
	require.NoError(t, os.WriteFile(events, existing, 0o644))

	plan := sidecar.NewPlan()
	plan.AddMetadata(meta, megKinds, schema.Record{"SamplingFrequency": 600}, true)
	plan.AddTable(events, eventTable(), true)
	_, err := plan.Commit(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	got, err := os.ReadFile(events)
	require.NoError(t, err)
	assert.Equal(t, existing, got, "existing table is untouched")
	assert.NoFileExists(t, meta, "no partial output")
}

func TestCommitWritesIntoEmptyTable(t *testing.T) {
	events := filepath.Join(t.TempDir(), "rec_events.tsv")
	require.NoError(t, os.WriteFile(events, nil, 0o644))

	plan := sidecar.NewPlan()
	plan.AddTable(events, eventTable(), true)
	_, err := plan.Commit(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(events)
	require.NoError(t, err)
	assert.Equal(t, "onset\tduration\n0\t1\n", string(got))
}

func TestCommitValidationFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	events := filepath.Join(dir, "rec_events.tsv")
	meta := filepath.Join(dir, "rec.json")

	plan := sidecar.NewPlan()
	plan.AddTable(events, eventTable(), true)
	plan.AddMetadata(meta, megKinds, schema.Record{"SamplingFrequency": "fast"}, true)
	_, err := plan.Commit(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.NoFileExists(t, events)
	assert.NoFileExists(t, meta)
}

func TestCommitSkips(t *testing.T) {
	dir := t.TempDir()
	plan := sidecar.NewPlan()
	plan.AddMetadata(filepath.Join(dir, "a.json"), megKinds, schema.Record{"SamplingFrequency": 600}, false)
	plan.AddMetadata(filepath.Join(dir, "b.json"), megKinds, schema.Record{"TaskName": ""}, true)
	plan.AddTable(filepath.Join(dir, "c_events.tsv"), nil, true)
	plan.AddTable(filepath.Join(dir, "d_channels.tsv"), &tables.Table{Columns: tables.ChannelColumns}, true)

	outcomes, err := plan.Commit(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.Equal(t, sidecar.ActionSkipped, o.Action, o.Path)
		assert.NoFileExists(t, o.Path)
	}
	assert.Equal(t, "disabled", outcomes[0].Reason)
}

func TestCommitDryRun(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "rec.json")
	events := filepath.Join(dir, "rec_events.tsv")

	plan := sidecar.NewPlan(sidecar.WithDryRun(true))
	plan.AddMetadata(meta, megKinds, schema.Record{"SamplingFrequency": 600}, true)
	plan.AddTable(events, eventTable(), true)
	outcomes, err := plan.Commit(context.Background())
	require.NoError(t, err)

	for _, o := range outcomes {
		assert.Equal(t, sidecar.ActionDryRun, o.Action)
		assert.Positive(t, o.Bytes)
	}
	assert.NoFileExists(t, meta)
	assert.NoFileExists(t, events)
}

func TestCommitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	meta := filepath.Join(t.TempDir(), "rec.json")
	plan := sidecar.NewPlan()
	plan.AddMetadata(meta, megKinds, schema.Record{"SamplingFrequency": 600}, true)
	_, err := plan.Commit(ctx)
	assert.True(t, errors.IsCanceled(err))
	assert.NoFileExists(t, meta)
}
