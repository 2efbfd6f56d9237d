// Package ptr provides helpers for optional values held as pointers.
package ptr

// Bool creates a pointer to the given bool value.
func Bool(b bool) *bool {
	return &b
}

// Int64 creates a pointer to the given int64 value.
func Int64(i int64) *int64 {
	return &i
}

// Float64 creates a pointer to the given float64 value.
func Float64(f float64) *float64 {
	return &f
}

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
