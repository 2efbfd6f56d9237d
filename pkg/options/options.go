// Package options defines the caller configuration of one conversion.
//
// Options are built once at the entry point, either decoded from a loaded
// configuration map or assembled in code, and passed by pointer to the
// synthesizers and table builders, which only read them.
package options

import (
	"fmt"
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/agentstation/bidsify/internal/utils/ptr"
	"github.com/agentstation/bidsify/pkg/errors"
)

// Options is the caller configuration, partitioned by namespace.
type Options struct {
	// General holds metadata overrides that apply to any acquisition kind.
	General map[string]any `mapstructure:"general" yaml:"general,omitempty" json:"general,omitempty"`
	// Anat holds anatomical metadata overrides.
	Anat Metadata `mapstructure:"anat" yaml:"anat,omitempty" json:"anat,omitempty"`
	// MEG holds recording metadata overrides.
	MEG      Metadata `mapstructure:"meg" yaml:"meg,omitempty" json:"meg,omitempty"`
	Channels Channels `mapstructure:"channels" yaml:"channels,omitempty" json:"channels,omitempty"`
	Events   Events   `mapstructure:"events" yaml:"events,omitempty" json:"events,omitempty"`
}

// Metadata holds the overrides for one metadata document.
type Metadata struct {
	Write  *bool          `mapstructure:"write" yaml:"write,omitempty" json:"write,omitempty"`
	Fields map[string]any `mapstructure:",remain" yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Enabled reports whether the document should be written. Nil means enabled.
func (m Metadata) Enabled() bool {
	return ptr.Deref(m.Write, true)
}

// Channels holds per-channel column overrides. Each non-empty column has
// one entry per channel, in acquisition order; nil or "" entries leave the
// data-derived value in place.
type Channels struct {
	Write             *bool `mapstructure:"write" yaml:"write,omitempty" json:"write,omitempty"`
	Name              []any `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Type              []any `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Units             []any `mapstructure:"units" yaml:"units,omitempty" json:"units,omitempty"`
	Description       []any `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	SamplingFrequency []any `mapstructure:"sampling_frequency" yaml:"sampling_frequency,omitempty" json:"sampling_frequency,omitempty"`
	LowCutoff         []any `mapstructure:"low_cutoff" yaml:"low_cutoff,omitempty" json:"low_cutoff,omitempty"`
	HighCutoff        []any `mapstructure:"high_cutoff" yaml:"high_cutoff,omitempty" json:"high_cutoff,omitempty"`
	Notch             []any `mapstructure:"notch" yaml:"notch,omitempty" json:"notch,omitempty"`
	SoftwareFilters   []any `mapstructure:"software_filters" yaml:"software_filters,omitempty" json:"software_filters,omitempty"`
	Status            []any `mapstructure:"status" yaml:"status,omitempty" json:"status,omitempty"`
	StatusDescription []any `mapstructure:"status_description" yaml:"status_description,omitempty" json:"status_description,omitempty"`
}

// Enabled reports whether the channel table should be written.
func (c Channels) Enabled() bool {
	return ptr.Deref(c.Write, true)
}

// Events holds the event table configuration. At most one of Trl,
// TrialTable and TrialTableFile may be set.
type Events struct {
	Write *bool `mapstructure:"write" yaml:"write,omitempty" json:"write,omitempty"`
	// Trl is a trial-boundary matrix: begin sample, end sample, offset, and
	// optional extra columns per row.
	Trl [][]float64 `mapstructure:"trl" yaml:"trl,omitempty" json:"trl,omitempty"`
	// TrialTable is a pre-built trial table used verbatim.
	TrialTable *TrialTable `mapstructure:"trialtable" yaml:"trialtable,omitempty" json:"trialtable,omitempty"`
	// TrialTableFile names a tab-separated file holding the trial table.
	TrialTableFile string `mapstructure:"trialtable_file" yaml:"trialtable_file,omitempty" json:"trialtable_file,omitempty"`
}

// Enabled reports whether the event table should be written.
func (e Events) Enabled() bool {
	return ptr.Deref(e.Write, true)
}

// HasTrialTable reports whether a pre-built trial table was supplied.
func (e Events) HasTrialTable() bool {
	return e.TrialTable != nil || e.TrialTableFile != ""
}

// TrialTable is a caller-built table of trials with named columns.
type TrialTable struct {
	Columns []string `mapstructure:"columns" yaml:"columns" json:"columns"`
	Rows    [][]any  `mapstructure:"rows" yaml:"rows" json:"rows"`
}

// Decode builds Options from a loaded configuration map, such as the
// settings of a viper instance. Keys are matched case-insensitively.
func Decode(raw map[string]any) (*Options, error) {
	opts := &Options{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           opts,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, errors.NewConfigError("options", "creating decoder", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.NewConfigError("options", err.Error(), err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks that the options are consistent.
func (o *Options) Validate() error {
	modes := 0
	if len(o.Events.Trl) > 0 {
		modes++
	}
	if o.Events.TrialTable != nil {
		modes++
	}
	if o.Events.TrialTableFile != "" {
		modes++
	}
	if modes > 1 {
		return errors.NewConfigError("events", "trl, trialtable and trialtable_file are mutually exclusive", errors.ErrInvalidInput)
	}
	for i, row := range o.Events.Trl {
		if len(row) < 3 {
			return errors.NewValidationError("events.trl", row,
				fmt.Sprintf("row %d needs begin sample, end sample and offset", i+1))
		}
	}
	return nil
}

// StringColumn converts a categorical override column. Nil entries become
// the unset sentinel "".
func StringColumn(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		out[i] = cast.ToString(v)
	}
	return out
}

// FloatColumn converts a numeric override column. Nil, empty and
// non-numeric entries become the unset sentinel NaN.
func FloatColumn(values []any) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := cast.ToFloat64E(v)
		if v == nil || err != nil {
			f = math.NaN()
		}
		if s, ok := v.(string); ok && s == "" {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}
