// Package sidecar writes the sidecar files of one acquisition.
//
// Writes are collected in a Plan and committed together. Commit checks every
// write before touching any file, so a fatal condition leaves no partial
// output. Metadata documents are merged into existing content; tables are
// only ever created fresh.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
	"github.com/agentstation/bidsify/pkg/reconcile"
	"github.com/agentstation/bidsify/pkg/schema"
	"github.com/agentstation/bidsify/pkg/tables"
)

// Action is what Commit did with one planned write.
type Action string

// Actions.
const (
	ActionWritten Action = "written"
	ActionSkipped Action = "skipped"
	ActionDryRun  Action = "dry-run"
)

// Outcome reports one planned write.
type Outcome struct {
	Path   string
	Action Action
	Reason string
	Bytes  int
}

type entry struct {
	path    string
	enabled bool

	metadata schema.Record
	kinds    []schema.Kind
	table    *tables.Table

	content []byte
	skip    string
}

func (e *entry) isTable() bool {
	return e.metadata == nil
}

// Plan collects the sidecar writes of one invocation.
type Plan struct {
	opts    Options
	entries []*entry
}

// NewPlan creates an empty plan.
func NewPlan(opts ...Option) *Plan {
	p := &Plan{}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// AddMetadata plans a metadata document write. Rec is merged into the
// existing document at path, if any, and checked against the vocabulary of
// kinds.
func (p *Plan) AddMetadata(path string, kinds []schema.Kind, rec schema.Record, enabled bool) {
	if rec == nil {
		rec = schema.Record{}
	}
	p.entries = append(p.entries, &entry{path: path, enabled: enabled, metadata: rec, kinds: kinds})
}

// AddTable plans a tabular sidecar write. A nil table means nothing to write.
func (p *Plan) AddTable(path string, t *tables.Table, enabled bool) {
	p.entries = append(p.entries, &entry{path: path, enabled: enabled, table: t})
}

// Len returns the number of planned writes.
func (p *Plan) Len() int {
	return len(p.entries)
}

// Commit checks every planned write and then performs them. It returns one
// outcome per planned write, in plan order.
func (p *Plan) Commit(ctx context.Context) ([]Outcome, error) {
	logger := p.logger(ctx)

	for _, e := range p.entries {
		if err := p.prepare(logger, e); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	outcomes := make([]Outcome, 0, len(p.entries))
	for _, e := range p.entries {
		l := logger.With().Str("sidecar", e.path).Logger()
		switch {
		case e.skip != "":
			l.Debug().Str("reason", e.skip).Msg("Skipping sidecar")
			outcomes = append(outcomes, Outcome{Path: e.path, Action: ActionSkipped, Reason: e.skip})
		case p.opts.dryRun:
			l.Info().Str("size", humanize.Bytes(uint64(len(e.content)))).Msg("Would write sidecar")
			outcomes = append(outcomes, Outcome{Path: e.path, Action: ActionDryRun, Bytes: len(e.content)})
		default:
			if err := write(e); err != nil {
				return outcomes, err
			}
			l.Info().Str("size", humanize.Bytes(uint64(len(e.content)))).Msg("Wrote sidecar")
			outcomes = append(outcomes, Outcome{Path: e.path, Action: ActionWritten, Bytes: len(e.content)})
		}
	}
	return outcomes, nil
}

func (p *Plan) logger(ctx context.Context) *zerolog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return logging.FromContext(ctx)
}

// prepare renders the content of e and runs its checks. It does not write.
func (p *Plan) prepare(logger *zerolog.Logger, e *entry) error {
	if !e.enabled {
		e.skip = "disabled"
		return nil
	}
	if e.isTable() {
		return prepareTable(e)
	}
	return prepareMetadata(logger, e)
}

func prepareMetadata(logger *zerolog.Logger, e *entry) error {
	rec := reconcile.Prune(e.metadata)
	if rec.Len() == 0 {
		e.skip = "no metadata fields"
		return nil
	}
	if err := schema.Validate(rec, e.kinds...); err != nil {
		return fmt.Errorf("metadata for %s: %w", e.path, err)
	}

	merged := reconcile.Prune(reconcile.Merge(ReadMetadata(logger, e.path), rec))
	content, err := EncodeMetadata(merged)
	if err != nil {
		return errors.WrapParse("json", e.path, err)
	}
	e.content = content
	return nil
}

func prepareTable(e *entry) error {
	if e.table.Empty() {
		e.skip = "no rows"
		return nil
	}
	if err := checkTableTarget(e.path); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tables.EncodeTSV(&buf, e.table); err != nil {
		return err
	}
	e.content = buf.Bytes()
	return nil
}

// checkTableTarget fails when path holds a non-empty file.
func checkTableTarget(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapIO("stat", path, err)
	}
	if info.IsDir() || info.Size() > 0 {
		return errors.NewFileExistsError(path, info.Size())
	}
	return nil
}

func write(e *entry) error {
	if err := os.MkdirAll(filepath.Dir(e.path), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(e.path), err)
	}
	if e.isTable() {
		if err := checkTableTarget(e.path); err != nil {
			return err
		}
	}
	if err := os.WriteFile(e.path, e.content, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", e.path, err)
	}
	return nil
}

// ReadMetadata reads an existing metadata document. A missing or unreadable
// document reads as empty.
func ReadMetadata(logger *zerolog.Logger, path string) schema.Record {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return schema.Record{}
	}
	if err != nil {
		logger.Warn().Err(err).Str("sidecar", path).Msg("Cannot read existing metadata, treating it as empty")
		return schema.Record{}
	}

	var rec schema.Record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		logger.Warn().Err(err).Str("sidecar", path).Msg("Cannot parse existing metadata, treating it as empty")
		return schema.Record{}
	}
	if rec == nil {
		return schema.Record{}
	}
	return rec
}

// EncodeMetadata renders a metadata document: indented JSON with sorted
// keys and a trailing newline.
func EncodeMetadata(rec schema.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", constants.JSONIndent)
	if err := enc.Encode(map[string]any(rec)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
