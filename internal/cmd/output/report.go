package output

import (
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/agentstation/bidsify"
	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/tables"
)

// Report is the printable form of a conversion result.
type Report struct {
	Path      string            `json:"path" yaml:"path"`
	Kind      string            `json:"kind" yaml:"kind"`
	Format    string            `json:"format" yaml:"format"`
	Sidecars  []string          `json:"sidecars" yaml:"sidecars"`
	Metadata  map[string]any    `json:"metadata" yaml:"metadata"`
	Sources   map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Channels  *TableReport      `json:"channels,omitempty" yaml:"channels,omitempty"`
	Events    *TableReport      `json:"events,omitempty" yaml:"events,omitempty"`
	EventMode string            `json:"event_mode,omitempty" yaml:"event_mode,omitempty"`
	Warnings  []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Outcomes  []OutcomeReport   `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// TableReport is a tabular sidecar as it would be written.
type TableReport struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// OutcomeReport describes what happened to one sidecar.
type OutcomeReport struct {
	Path   string `json:"path" yaml:"path"`
	Action string `json:"action" yaml:"action"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Size   string `json:"size,omitempty" yaml:"size,omitempty"`
}

// NewReport converts a conversion result into a Report.
func NewReport(res *bidsify.Result) *Report {
	r := &Report{
		Path:     res.Path,
		Kind:     res.Kind.String(),
		Format:   string(res.Format),
		Metadata: map[string]any(res.Metadata),
		Sources:  make(map[string]string, len(res.Provenance)),
		Channels: tableReport(res.Channels),
		Events:   tableReport(res.Events),
	}
	r.Sidecars = append(r.Sidecars, res.Paths.Metadata)
	if res.Kind == acquisition.KindRecording {
		r.Sidecars = append(r.Sidecars, res.Paths.Channels, res.Paths.Events)
	}
	for k, fp := range res.Provenance {
		r.Sources[k] = fp.Source.String()
	}
	if r.Events != nil {
		r.EventMode = res.EventMode.String()
	}
	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	for _, o := range res.Outcomes {
		or := OutcomeReport{Path: o.Path, Action: string(o.Action), Reason: o.Reason}
		if o.Bytes > 0 {
			or.Size = humanize.Bytes(uint64(o.Bytes))
		}
		r.Outcomes = append(r.Outcomes, or)
	}
	return r
}

func tableReport(t *tables.Table) *TableReport {
	if t.Empty() {
		return nil
	}
	return &TableReport{Columns: t.Columns, Rows: t.Rows}
}

// Sections implements Sectioned.
func (r *Report) Sections() []Data {
	keys := make([]string, 0, len(r.Metadata))
	for k := range r.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	metadata := Data{Title: "Metadata", Headers: []string{"field", "value", "source"}}
	for _, k := range keys {
		metadata.Rows = append(metadata.Rows, []string{k, cast.ToString(r.Metadata[k]), r.Sources[k]})
	}
	out := []Data{metadata}

	if r.Channels != nil {
		out = append(out, Data{Title: "Channels", Headers: r.Channels.Columns, Rows: r.Channels.Rows})
	}
	if r.Events != nil {
		out = append(out, Data{Title: "Events (" + r.EventMode + ")", Headers: r.Events.Columns, Rows: r.Events.Rows})
	}
	if len(r.Warnings) > 0 {
		warnings := Data{Title: "Warnings", Headers: []string{"warning"}}
		for _, w := range r.Warnings {
			warnings.Rows = append(warnings.Rows, []string{w})
		}
		out = append(out, warnings)
	}
	if len(r.Outcomes) > 0 {
		outcomes := OutcomeList(r.Outcomes).Sections()[0]
		outcomes.Title = "Sidecars"
		out = append(out, outcomes)
	}
	return out
}

// OutcomeList is the printable form of the sidecars written by one or
// more conversions.
type OutcomeList []OutcomeReport

// NewOutcomeList collects the outcomes of the given results.
func NewOutcomeList(results ...*bidsify.Result) OutcomeList {
	var out OutcomeList
	for _, res := range results {
		out = append(out, NewReport(res).Outcomes...)
	}
	return out
}

// Sections implements Sectioned.
func (l OutcomeList) Sections() []Data {
	d := Data{Headers: []string{"path", "action", "reason", "size"}}
	for _, o := range l {
		d.Rows = append(d.Rows, []string{o.Path, o.Action, o.Reason, o.Size})
	}
	return []Data{d}
}
