// Package tables builds the channel and event tables of a recording and
// reads and writes them as tab-separated values.
package tables

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/errors"
)

// Table is a tabular sidecar: named columns and rows of formatted cells.
// An empty cell is unset and is written as "n/a".
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has nothing to write.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Column returns the cells of the named column, or nil if there is none.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// FormatFloat formats a numeric cell. NaN is unset.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// cellReplacer keeps a cell on one line and inside its column.
var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func writeRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteString(constants.TSVDelimiter)
		}
		w.WriteString(cellReplacer.Replace(c))
	}
	w.WriteByte('\n')
}

// EncodeTSV writes t as tab-separated values with a header row. Cells are
// written verbatim without quoting. Tabs and line breaks inside a cell are
// replaced by spaces.
func EncodeTSV(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, t.Columns)
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = constants.NotApplicable
			if i < len(row) && row[i] != "" {
				record[i] = row[i]
			}
		}
		writeRow(bw, record)
	}
	return errors.WrapIO("write", "", bw.Flush())
}

// DecodeTSV reads a tab-separated table whose first row is the header.
// Quotes have no special meaning. "n/a" cells are read back as unset.
func DecodeTSV(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var t *Table
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		cells := strings.Split(text, constants.TSVDelimiter)
		if t == nil {
			t = &Table{Columns: cells}
			continue
		}
		if text == "" {
			continue
		}
		if len(cells) != len(t.Columns) {
			return nil, &errors.ParseError{
				Format:  "tsv",
				Line:    line,
				Message: "row has " + strconv.Itoa(len(cells)) + " cells, header has " + strconv.Itoa(len(t.Columns)),
			}
		}
		for j, cell := range cells {
			if cell == constants.NotApplicable {
				cells[j] = ""
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapParse("tsv", "", err)
	}
	if t == nil {
		return nil, errors.NewParseError("tsv", "", "missing header row", nil)
	}
	return t, nil
}
