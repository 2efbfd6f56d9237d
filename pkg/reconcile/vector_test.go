package reconcile_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/reconcile"
)

func TestMergeStrings(t *testing.T) {
	data := []string{"megmag", "megmag", "megmag", "eog", "ecg"}
	caller := []string{"", "", "eeg", "", ""}

	got, err := reconcile.MergeStrings(data, caller)
	require.NoError(t, err)
	assert.Equal(t, []string{"megmag", "megmag", "eeg", "eog", "ecg"}, got)
	assert.Equal(t, "megmag", data[2], "data-derived input must not be modified")
}

func TestMergeFloats(t *testing.T) {
	nan := math.NaN()
	got, err := reconcile.MergeFloats([]float64{1200, 1200, nan}, []float64{nan, 0, 600})
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 0, 600}, got)
}

func TestMergeVectorPerIndex(t *testing.T) {
	nan := math.NaN()
	data := []float64{1, 2, 3, 4, nan}
	caller := []float64{nan, 20, nan, 40, nan}

	got, err := reconcile.MergeFloats(data, caller)
	require.NoError(t, err)
	require.Len(t, got, len(data))
	for i := range got {
		if math.IsNaN(caller[i]) {
			if math.IsNaN(data[i]) {
				assert.True(t, math.IsNaN(got[i]))
			} else {
				assert.Equal(t, data[i], got[i])
			}
		} else {
			assert.Equal(t, caller[i], got[i])
		}
	}
}

func TestMergeVectorLengthMismatch(t *testing.T) {
	got, err := reconcile.MergeStrings([]string{"a", "b"}, []string{"c"})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.IsLengthMismatch(err))
}

func TestMergeVectorNoOverrides(t *testing.T) {
	data := []string{"a", "b"}
	got, err := reconcile.MergeStrings(data, nil)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	got[0] = "z"
	assert.Equal(t, "a", data[0], "result must be a copy")
}

func TestMergeVectorCustomSentinel(t *testing.T) {
	got, err := reconcile.MergeVector([]int{1, 2, 3}, []int{-1, 5, -1}, func(v int) bool { return v < 0 })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 3}, got)
}

func TestUnsetColumns(t *testing.T) {
	assert.Equal(t, []string{"", ""}, reconcile.UnsetStrings(2))
	floats := reconcile.UnsetFloats(3)
	require.Len(t, floats, 3)
	for _, f := range floats {
		assert.True(t, math.IsNaN(f))
	}
}
