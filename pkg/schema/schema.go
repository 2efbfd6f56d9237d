// Package schema holds the metadata field vocabulary and selects the
// recognised fields out of arbitrary caller and calibration records.
//
// Only names listed here are ever written to a metadata document. Matching
// is case-insensitive because configuration loaders lowercase keys; selected
// fields always carry their canonical spelling.
package schema

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/reconcile"
)

// Record is a metadata record restricted to vocabulary fields.
type Record = reconcile.Record

// Kind groups fields by the output they apply to.
type Kind int

// Kind constants.
const (
	KindGeneric Kind = iota
	KindAnatomical
	KindRecording
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindAnatomical:
		return "anat"
	case KindRecording:
		return "meg"
	}
	return "unknown"
}

// KindsFor returns the field kinds that apply to an acquisition kind.
func KindsFor(k acquisition.Kind) []Kind {
	switch k {
	case acquisition.KindAnatomical:
		return []Kind{KindGeneric, KindAnatomical}
	case acquisition.KindRecording:
		return []Kind{KindGeneric, KindRecording}
	}
	return []Kind{KindGeneric}
}

// FieldType is the declared JSON type of a field.
type FieldType string

// Field is one named, typed metadata field.
type Field struct {
	Name        string
	Type        FieldType
	Kind        Kind
	Description string
}

var (
	vocabulary = buildVocabulary()
	byName     = indexByName(vocabulary)
)

func buildVocabulary() map[Kind][]Field {
	v := map[Kind][]Field{
		KindGeneric:    genericFields(),
		KindAnatomical: anatomicalFields(),
		KindRecording:  recordingFields(),
	}
	for k, fields := range v {
		for i := range fields {
			fields[i].Kind = k
		}
	}
	return v
}

func indexByName(v map[Kind][]Field) map[string]Field {
	idx := make(map[string]Field)
	for _, fields := range v {
		for _, f := range fields {
			idx[strings.ToLower(f.Name)] = f
		}
	}
	return idx
}

// Lookup returns the field with the given name, ignoring case.
func Lookup(name string) (Field, bool) {
	f, ok := byName[strings.ToLower(name)]
	return f, ok
}

// IsField reports whether name is a vocabulary field of any kind.
func IsField(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// FieldsFor returns the fields of the given kinds, sorted by name.
func FieldsFor(kinds ...Kind) []Field {
	var out []Field
	for _, k := range kinds {
		out = append(out, vocabulary[k]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Select returns the vocabulary fields of the given kinds found among the
// top-level keys of record. Unset values are skipped. Scalars are coerced to
// the declared type when that is lossless; otherwise the value is kept as is
// and left for Validate to report. When a name appears in several spellings
// the canonical spelling wins.
func Select(record map[string]any, kinds ...Kind) Record {
	allowed := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	out := Record{}
	exact := map[string]bool{}
	for key, value := range record {
		f, ok := Lookup(key)
		if !ok || !allowed[f.Kind] || reconcile.IsUnset(value) {
			continue
		}
		if exact[f.Name] {
			continue
		}
		out[f.Name] = coerce(f.Type, value)
		if key == f.Name {
			exact[f.Name] = true
		}
	}
	return out
}

func coerce(t FieldType, v any) any {
	if s, ok := v.(string); ok && s == constants.NotApplicable {
		return v
	}
	switch t {
	case FieldTypeString:
		switch v.(type) {
		case string:
			return v
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			if s, err := cast.ToStringE(v); err == nil {
				return s
			}
		}
	case FieldTypeNumber:
		if isScalar(v) {
			if f, err := cast.ToFloat64E(v); err == nil {
				return f
			}
		}
	case FieldTypeInteger:
		if isScalar(v) {
			if f, err := cast.ToFloat64E(v); err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				return int64(f)
			}
		}
	case FieldTypeBoolean:
		if isScalar(v) {
			if b, err := cast.ToBoolE(v); err == nil {
				return b
			}
		}
	}
	return v
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
