package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// FieldProvenance records which source supplied a field and which sources
// it overrode on the way.
type FieldProvenance struct {
	Source     SourceName
	Overridden []SourceName
}

// Provenance maps each merged key to its origin.
type Provenance map[string]FieldProvenance

func (p Provenance) track(key string, source SourceName, overrides bool) {
	fp := p[key]
	if overrides {
		fp.Overridden = append(fp.Overridden, fp.Source)
	}
	fp.Source = source
	p[key] = fp
}

// SourceOf returns the source that supplied key.
func (p Provenance) SourceOf(key string) (SourceName, bool) {
	fp, ok := p[key]
	return fp.Source, ok
}

// Conflicts returns the keys supplied by more than one source, sorted.
func (p Provenance) Conflicts() []string {
	var keys []string
	for k, fp := range p {
		if len(fp.Overridden) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Counts returns how many keys each source supplied.
func (p Provenance) Counts() map[SourceName]int {
	counts := make(map[SourceName]int)
	for _, fp := range p {
		counts[fp.Source]++
	}
	return counts
}

// String renders the provenance one key per line, sorted by key.
func (p Provenance) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fp := p[k]
		sb.WriteString(fmt.Sprintf("%s <- %s", k, fp.Source))
		if len(fp.Overridden) > 0 {
			overridden := make([]string, len(fp.Overridden))
			for i, s := range fp.Overridden {
				overridden[i] = s.String()
			}
			sb.WriteString(fmt.Sprintf(" (over %s)", strings.Join(overridden, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
