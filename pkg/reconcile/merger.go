package reconcile

// Merge returns the right-biased union of base and override: keys present in
// override replace the same key in base, keys only in base are kept, keys
// only in override are added. Override values that are unset sentinels are
// ignored. Neither input is modified.
func Merge(base, override Record) Record {
	out := make(Record, len(base)+len(override))
	for k, v := range base {
		if !IsUnset(v) {
			out[k] = v
		}
	}
	for k, v := range override {
		if IsUnset(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// Source is a named record taking part in a fold.
type Source struct {
	Name   SourceName
	Record Record
}

// Fold merges sources left to right, so sources later in the list take
// precedence. It also reports which source supplied each output key.
func Fold(sources ...Source) (Record, Provenance) {
	merged := Record{}
	prov := Provenance{}
	for _, src := range sources {
		for k, v := range src.Record {
			if IsUnset(v) {
				continue
			}
			_, had := merged[k]
			prov.track(k, src.Name, had)
		}
		merged = Merge(merged, src.Record)
	}
	return merged, prov
}
