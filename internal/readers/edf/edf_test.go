package edf_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bidsify/internal/readers/edf"
	"github.com/agentstation/bidsify/pkg/errors"
)

func TestChannelType(t *testing.T) {
	tests := map[string]string{
		"EEG Fpz-Cz":     "eeg",
		"eog horizontal": "eog",
		"EKG":            "ecg",
		"EMG submental":  "emg",
		"Resp oro-nasal": "misc",
		"STI 014":        "trigger",
	}
	for label, want := range tests {
		assert.Equal(t, want, edf.ChannelType(label), label)
	}
}

func TestParseAnnotations(t *testing.T) {
	notes := "+0 0 Recording starts\n+30.5 2.5 Sleep stage W\ngarbage\n+61 0 Arousal\n"
	events := edf.ParseAnnotations(notes, 100)
	require.Len(t, events, 3)

	assert.Equal(t, "Sleep stage W", events[1].Value)
	require.NotNil(t, events[1].Sample)
	assert.Equal(t, int64(3051), *events[1].Sample)
	require.NotNil(t, events[1].Duration)
	assert.Equal(t, 250.0, *events[1].Duration)

	assert.Nil(t, events[2].Duration)
	assert.Equal(t, int64(6101), *events[2].Sample)
}

func TestReadMissing(t *testing.T) {
	_, err := edf.New().Read(context.Background(), filepath.Join(t.TempDir(), "none.edf"))
	assert.True(t, errors.IsNotFound(err))
}
