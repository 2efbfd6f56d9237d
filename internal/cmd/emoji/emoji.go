// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols used in alerts and command feedback.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a non-fatal issue, such as dropped trial columns.
	Warning = "!"

	// Info marks neutral information, such as a dry run.
	Info = "i"
)
