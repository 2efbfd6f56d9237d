package reconcile

import (
	"math"

	"github.com/agentstation/bidsify/pkg/errors"
)

// MergeVector combines a data-derived sequence with a caller-supplied one of
// the same length. At each index the caller's element wins unless unset
// reports it as the unset sentinel, in which case the data-derived element
// is kept. Index alignment is preserved. A nil or empty caller sequence
// means no overrides and yields a copy of data.
func MergeVector[T any](data, caller []T, unset func(T) bool) ([]T, error) {
	out := make([]T, len(data))
	copy(out, data)
	if len(caller) == 0 {
		return out, nil
	}
	if len(caller) != len(data) {
		return nil, errors.NewLengthMismatchError("", len(data), len(caller))
	}
	for i, v := range caller {
		if !unset(v) {
			out[i] = v
		}
	}
	return out, nil
}

// MergeStrings merges categorical columns, where "" is the unset sentinel.
func MergeStrings(data, caller []string) ([]string, error) {
	return MergeVector(data, caller, func(s string) bool { return s == "" })
}

// MergeFloats merges numeric columns, where NaN is the unset sentinel.
func MergeFloats(data, caller []float64) ([]float64, error) {
	return MergeVector(data, caller, math.IsNaN)
}

// UnsetStrings returns n unset categorical cells.
func UnsetStrings(n int) []string {
	return make([]string, n)
}

// UnsetFloats returns n unset numeric cells.
func UnsetFloats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
