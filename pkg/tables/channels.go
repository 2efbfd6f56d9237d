package tables

import (
	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/options"
	"github.com/agentstation/bidsify/pkg/reconcile"
)

// ChannelColumns are the channel table columns, in output order.
var ChannelColumns = []string{
	"name", "type", "units", "description", "sampling_frequency",
	"low_cutoff", "high_cutoff", "notch", "software_filters",
	"status", "status_description",
}

// ChannelRow is one channel. Empty strings and NaN are unset.
type ChannelRow struct {
	Name              string
	Type              string
	Units             string
	Description       string
	SamplingFrequency float64
	LowCutoff         float64
	HighCutoff        float64
	Notch             float64
	SoftwareFilters   string
	Status            string
	StatusDescription string
}

func (r ChannelRow) cells() []string {
	return []string{
		r.Name, r.Type, r.Units, r.Description, FormatFloat(r.SamplingFrequency),
		FormatFloat(r.LowCutoff), FormatFloat(r.HighCutoff), FormatFloat(r.Notch), r.SoftwareFilters,
		r.Status, r.StatusDescription,
	}
}

// ChannelTable is the channel table of one recording, in acquisition
// channel order.
type ChannelTable struct {
	Rows []ChannelRow
}

// Table returns the table in its written form.
func (ct *ChannelTable) Table() *Table {
	t := &Table{Columns: ChannelColumns}
	for _, r := range ct.Rows {
		t.Rows = append(t.Rows, r.cells())
	}
	return t
}

// BuildChannels merges the data-derived channel columns with the caller
// overrides column by column and assembles one row per channel.
func BuildChannels(rec *acquisition.Recording, ov options.Channels) (*ChannelTable, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	n := rec.ChannelCount

	strs := func(data []string) []string {
		if len(data) == 0 {
			return reconcile.UnsetStrings(n)
		}
		return data
	}
	fs := make([]float64, n)
	for i := range fs {
		fs[i] = rec.SampleRate
	}

	type strColumn struct {
		name   string
		data   []string
		caller []any
		dst    func(*ChannelRow, string)
	}
	type floatColumn struct {
		name   string
		data   []float64
		caller []any
		dst    func(*ChannelRow, float64)
	}

	rows := make([]ChannelRow, n)
	for _, c := range []strColumn{
		{"name", strs(rec.ChannelLabels), ov.Name, func(r *ChannelRow, v string) { r.Name = v }},
		{"type", strs(rec.ChannelTypes), ov.Type, func(r *ChannelRow, v string) { r.Type = v }},
		{"units", strs(rec.ChannelUnits), ov.Units, func(r *ChannelRow, v string) { r.Units = v }},
		{"description", strs(nil), ov.Description, func(r *ChannelRow, v string) { r.Description = v }},
		{"software_filters", strs(nil), ov.SoftwareFilters, func(r *ChannelRow, v string) { r.SoftwareFilters = v }},
		{"status", strs(nil), ov.Status, func(r *ChannelRow, v string) { r.Status = v }},
		{"status_description", strs(nil), ov.StatusDescription, func(r *ChannelRow, v string) { r.StatusDescription = v }},
	} {
		merged, err := reconcile.MergeStrings(c.data, options.StringColumn(c.caller))
		if err != nil {
			return nil, columnError(c.name, err)
		}
		if len(merged) != n {
			return nil, errors.NewLengthMismatchError(c.name, n, len(merged))
		}
		for i, v := range merged {
			c.dst(&rows[i], v)
		}
	}

	for _, c := range []floatColumn{
		{"sampling_frequency", fs, ov.SamplingFrequency, func(r *ChannelRow, v float64) { r.SamplingFrequency = v }},
		{"low_cutoff", reconcile.UnsetFloats(n), ov.LowCutoff, func(r *ChannelRow, v float64) { r.LowCutoff = v }},
		{"high_cutoff", reconcile.UnsetFloats(n), ov.HighCutoff, func(r *ChannelRow, v float64) { r.HighCutoff = v }},
		{"notch", reconcile.UnsetFloats(n), ov.Notch, func(r *ChannelRow, v float64) { r.Notch = v }},
	} {
		merged, err := reconcile.MergeFloats(c.data, options.FloatColumn(c.caller))
		if err != nil {
			return nil, columnError(c.name, err)
		}
		for i, v := range merged {
			c.dst(&rows[i], v)
		}
	}

	return &ChannelTable{Rows: rows}, nil
}

func columnError(column string, err error) error {
	var lm *errors.LengthMismatchError
	if errors.As(err, &lm) {
		return errors.NewLengthMismatchError("channels."+column, lm.Expected, lm.Actual)
	}
	return err
}
