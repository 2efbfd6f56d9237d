// Package registry chooses an acquisition reader by file name suffix.
package registry

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/bidsify/internal/readers/descriptor"
	"github.com/agentstation/bidsify/internal/readers/edf"
	"github.com/agentstation/bidsify/internal/readers/nifti"
	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
)

// Registry maps file name suffixes to readers. It implements
// acquisition.Reader.
type Registry struct {
	readers map[string]acquisition.Reader
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{readers: make(map[string]acquisition.Reader)}
}

// Default returns a registry with every built-in reader. NIfTI options
// configure the anatomical reader.
func Default(niftiOpts ...nifti.Option) *Registry {
	r := New()
	r.Register(descriptor.New(), descriptor.Suffixes...)
	r.Register(edf.New(), edf.Suffixes...)
	r.Register(nifti.New(niftiOpts...), nifti.Suffixes...)
	return r
}

// Register adds reader for the given suffixes, replacing earlier ones.
func (r *Registry) Register(reader acquisition.Reader, suffixes ...string) {
	for _, s := range suffixes {
		r.readers[strings.ToLower(s)] = reader
	}
}

// Has reports whether a reader handles path.
func (r *Registry) Has(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Suffixes returns the registered suffixes, sorted.
func (r *Registry) Suffixes() []string {
	out := make([]string, 0, len(r.readers))
	for s := range r.readers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// lookup returns the reader of the longest suffix matching path.
func (r *Registry) lookup(path string) (acquisition.Reader, bool) {
	name := strings.ToLower(filepath.Base(path))
	var (
		best    acquisition.Reader
		bestLen int
	)
	for s, reader := range r.readers {
		if strings.HasSuffix(name, s) && len(s) > bestLen {
			best, bestLen = reader, len(s)
		}
	}
	return best, best != nil
}

// Read implements acquisition.Reader.
func (r *Registry) Read(ctx context.Context, path string) (acquisition.Descriptor, error) {
	reader, ok := r.lookup(path)
	if !ok {
		return nil, errors.NewUnsupportedFormatError(path, strings.TrimPrefix(filepath.Ext(path), "."))
	}
	return reader.Read(ctx, path)
}
