// Package errors provides custom error types for the bidsify system.
// These errors separate fatal, invocation-aborting conditions from the
// recoverable ones, and allow callers to check them with errors.Is and
// errors.As instead of matching on message text.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library functions, re-exported so callers need
// only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the bidsify system
var (
	// ErrNotFound indicates that a requested file or resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a sidecar already exists and may not be replaced
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates that an acquisition format cannot be converted
	ErrUnsupportedFormat = errors.New("unsupported acquisition format")

	// ErrLengthMismatch indicates two sequences that must be aligned differ in length
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidTrialTable indicates a caller trial table with malformed columns
	ErrInvalidTrialTable = errors.New("invalid trial table")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// UnsupportedFormatError is returned when no reader or synthesizer handles
// an acquisition.
type UnsupportedFormatError struct {
	Path   string
	Format string
}

// Error implements the error interface
func (e *UnsupportedFormatError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("unsupported acquisition format %q for %s", e.Format, e.Path)
	}
	return fmt.Sprintf("unsupported acquisition format for %s", e.Path)
}

// Is implements errors.Is support
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// NewUnsupportedFormatError creates a new UnsupportedFormatError
func NewUnsupportedFormatError(path, format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Path: path, Format: format}
}

// LengthMismatchError represents a misaligned per-channel column
type LengthMismatchError struct {
	Column   string
	Expected int
	Actual   int
}

// Error implements the error interface
func (e *LengthMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %s has %d values, expected %d", e.Column, e.Actual, e.Expected)
	}
	return fmt.Sprintf("sequence has %d values, expected %d", e.Actual, e.Expected)
}

// Is implements errors.Is support
func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// NewLengthMismatchError creates a new LengthMismatchError
func NewLengthMismatchError(column string, expected, actual int) *LengthMismatchError {
	return &LengthMismatchError{Column: column, Expected: expected, Actual: actual}
}

// FileExistsError is returned when a tabular sidecar would overwrite
// a non-empty file.
type FileExistsError struct {
	Path string
	Size int64
}

// Error implements the error interface
func (e *FileExistsError) Error() string {
	return fmt.Sprintf("refusing to overwrite non-empty file %s (%d bytes)", e.Path, e.Size)
}

// Is implements errors.Is support
func (e *FileExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NewFileExistsError creates a new FileExistsError
func NewFileExistsError(path string, size int64) *FileExistsError {
	return &FileExistsError{Path: path, Size: size}
}

// TrialTableError represents a caller trial table whose leading columns
// are not begsample, endsample, offset.
type TrialTableError struct {
	Expected []string
	Actual   []string
}

// Error implements the error interface
func (e *TrialTableError) Error() string {
	return fmt.Sprintf("trial table must start with columns [%s], got [%s]",
		strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

// Is implements errors.Is support
func (e *TrialTableError) Is(target error) bool {
	return target == ErrInvalidTrialTable
}

// NewTrialTableError creates a new TrialTableError
func NewTrialTableError(expected, actual []string) *TrialTableError {
	return &TrialTableError{Expected: expected, Actual: actual}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupportedFormat checks if an error is an unsupported format error
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// IsLengthMismatch checks if an error is a length mismatch error
func IsLengthMismatch(err error) bool {
	return errors.Is(err, ErrLengthMismatch)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "tsv", "edf", "nifti"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "stat", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
