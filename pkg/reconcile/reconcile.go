// Package reconcile combines metadata from several sources into one record.
//
// Two operations live here. Merge and Fold combine flat key/value records,
// where sources later in the fold win. MergeVector combines two aligned
// per-channel sequences, where a caller-supplied element wins over the
// data-derived one unless it is the unset sentinel.
//
// Both operations share one rule: an unset sentinel (nil, NaN or the empty
// string) is never propagated as if it were a real value.
package reconcile

import (
	"math"
	"reflect"
)

// Record is a flat mapping from metadata field name to value. Values are
// opaque: scalars, lists, or nested maps, always replaced as a whole.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Len returns the number of keys set in the record.
func (r Record) Len() int {
	return len(r)
}

// SourceName identifies where a record came from.
type SourceName string

// String returns the string representation of a source name.
func (sn SourceName) String() string {
	return string(sn)
}

// Source names, in the order the synthesizers fold them.
const (
	SourceCalibration SourceName = "calibration"
	SourceDerived     SourceName = "derived"
	SourceGeneral     SourceName = "general"
	SourceAnatomical  SourceName = "anat"
	SourceRecording   SourceName = "meg"
	SourceExisting    SourceName = "existing"
	SourceSynthesized SourceName = "synthesized"
)

// Unset returns the unset sentinel for float columns.
func Unset() float64 {
	return math.NaN()
}

// IsUnset reports whether v is an unset sentinel: nil, a NaN float, or the
// empty string. Zero, false and "n/a" are real values.
func IsUnset(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// IsEmpty reports whether v carries no content worth writing: an unset
// sentinel, an empty list, or an empty map.
func IsEmpty(v any) bool {
	if IsUnset(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Prune returns a copy of r without empty values.
func Prune(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if !IsEmpty(v) {
			out[k] = v
		}
	}
	return out
}
