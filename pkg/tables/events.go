package tables

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/options"
)

// Event table columns.
var (
	TrialColumns    = []string{"onset", "duration"}
	RawEventColumns = []string{"onset", "duration", "sample", "event_type", "event_value"}
	// TrialTableColumns must lead every caller trial table, in this order.
	TrialTableColumns = []string{constants.TrialBeginColumn, constants.TrialEndColumn, constants.TrialOffsetColumn}
)

// EventMode identifies how an event table was built.
type EventMode int

// Event modes, by precedence.
const (
	EventModeNone EventMode = iota
	EventModeTrialTable
	EventModeTrl
	EventModeRaw
)

// String returns the string representation of the mode.
func (m EventMode) String() string {
	switch m {
	case EventModeTrialTable:
		return "trialtable"
	case EventModeTrl:
		return "trl"
	case EventModeRaw:
		return "raw"
	}
	return "none"
}

// EventRow is one event. NaN and "" are unset.
type EventRow struct {
	Onset    float64
	Duration float64
	Sample   float64
	Type     string
	Value    string
}

// Warning is a recoverable problem found while building a table.
type Warning struct {
	Message string
	Rows    int
}

// String returns the warning text.
func (w Warning) String() string {
	return w.Message
}

// SelectEventMode reports which mode BuildEvents uses for the options.
func SelectEventMode(ev options.Events) EventMode {
	switch {
	case ev.HasTrialTable():
		return EventModeTrialTable
	case len(ev.Trl) > 0:
		return EventModeTrl
	}
	return EventModeRaw
}

// BuildEvents builds the event table. A caller trial table is used verbatim,
// a trial matrix is converted to onsets and durations, and otherwise the raw
// events of the recording are converted. A nil table means there is nothing
// to write. Warnings are also logged.
func BuildEvents(ctx context.Context, rec *acquisition.Recording, ev options.Events) (*Table, []Warning, error) {
	if err := rec.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		t        *Table
		warnings []Warning
		err      error
	)
	mode := SelectEventMode(ev)
	switch mode {
	case EventModeTrialTable:
		t, err = fromTrialTable(ev)
	case EventModeTrl:
		t, warnings, err = fromTrl(rec.SampleRate, ev.Trl)
	default:
		t = fromRawEvents(rec.SampleRate, rec.Events)
	}
	if err != nil {
		return nil, nil, err
	}

	logger := logging.FromContext(ctx)
	for _, w := range warnings {
		logger.Warn().Int("rows", w.Rows).Msg(w.Message)
	}
	rows := 0
	if t != nil {
		rows = len(t.Rows)
	}
	logger.Debug().Str("mode", mode.String()).Msgf("Built event table with %s rows", humanize.Comma(int64(rows)))
	return t, warnings, nil
}

func fromTrialTable(ev options.Events) (*Table, error) {
	var t *Table
	if ev.TrialTableFile != "" {
		f, err := os.Open(ev.TrialTableFile)
		if err != nil {
			return nil, errors.WrapIO("open", ev.TrialTableFile, err)
		}
		defer func() { _ = f.Close() }()
		if t, err = DecodeTSV(f); err != nil {
			return nil, errors.WrapParse("tsv", ev.TrialTableFile, err)
		}
	} else {
		t = &Table{Columns: ev.TrialTable.Columns}
		for _, raw := range ev.TrialTable.Rows {
			row := make([]string, len(raw))
			for j, v := range raw {
				if f, ok := v.(float64); ok {
					row[j] = FormatFloat(f)
					continue
				}
				row[j] = cast.ToString(v)
			}
			t.Rows = append(t.Rows, row)
		}
	}

	if len(t.Columns) < len(TrialTableColumns) {
		return nil, errors.NewTrialTableError(TrialTableColumns, t.Columns)
	}
	for i, want := range TrialTableColumns {
		if t.Columns[i] != want {
			return nil, errors.NewTrialTableError(TrialTableColumns, t.Columns)
		}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, errors.NewLengthMismatchError(fmt.Sprintf("trialtable row %d", i+1), len(t.Columns), len(row))
		}
	}
	return t, nil
}

func fromTrl(fs float64, trl [][]float64) (*Table, []Warning, error) {
	t := &Table{Columns: TrialColumns}
	offsets, extra := 0, 0
	for i, row := range trl {
		if len(row) < 3 {
			return nil, nil, errors.NewValidationError("events.trl", row,
				fmt.Sprintf("row %d needs begin sample, end sample and offset", i+1))
		}
		begin, end := row[0], row[1]
		if end < begin {
			return nil, nil, errors.NewValidationError("events.trl", row,
				fmt.Sprintf("row %d ends at sample %s before it begins at %s", i+1, FormatFloat(end), FormatFloat(begin)))
		}
		if row[2] != 0 {
			offsets++
		}
		if len(row) > 3 {
			extra++
		}
		t.Rows = append(t.Rows, []string{
			FormatFloat((begin - 1) / fs),
			FormatFloat((end - begin + 1) / fs),
		})
	}

	var warnings []Warning
	if offsets > 0 {
		warnings = append(warnings, Warning{
			Message: "Ignoring non-zero trial offsets; onset and duration use begin and end samples only",
			Rows:    offsets,
		})
	}
	if extra > 0 {
		warnings = append(warnings, Warning{
			Message: "Dropping trial matrix columns beyond the third",
			Rows:    extra,
		})
	}
	return t, warnings, nil
}

// RawEventRows converts decoded events to rows. Missing sample, duration
// and value become unset.
func RawEventRows(fs float64, events []acquisition.RawEvent) []EventRow {
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		sample, duration := math.NaN(), math.NaN()
		if e.Sample != nil {
			sample = float64(*e.Sample)
		}
		if e.Duration != nil {
			duration = *e.Duration
		}
		value := ""
		if e.Value != nil {
			if f, ok := e.Value.(float64); ok {
				value = FormatFloat(f)
			} else {
				value = cast.ToString(e.Value)
			}
		}
		rows = append(rows, EventRow{
			Onset:    (sample - 1) / fs,
			Duration: duration / fs,
			Sample:   sample,
			Type:     e.Type,
			Value:    value,
		})
	}
	return rows
}

func fromRawEvents(fs float64, events []acquisition.RawEvent) *Table {
	if len(events) == 0 {
		return nil
	}
	t := &Table{Columns: RawEventColumns}
	for _, r := range RawEventRows(fs, events) {
		t.Rows = append(t.Rows, []string{
			FormatFloat(r.Onset), FormatFloat(r.Duration), FormatFloat(r.Sample), r.Type, r.Value,
		})
	}
	return t
}
