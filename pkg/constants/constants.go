// Package constants provides shared constants used throughout the bidsify codebase.
// This includes file permissions, sidecar naming, and the literal values
// written into sidecar files, which must stay consistent between the
// writer and the readers that consume them.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Sidecar naming constants. Every sidecar shares the acquisition's base name.
const (
	// MetadataExt is appended to the base name for the metadata document
	MetadataExt = ".json"

	// ChannelsSuffix is appended to the base name for the channel table
	ChannelsSuffix = "_channels.tsv"

	// EventsSuffix is appended to the base name for the event table
	EventsSuffix = "_events.tsv"
)

// Tabular sidecar constants
const (
	// NotApplicable is written to a table cell holding no value
	NotApplicable = "n/a"

	// TSVDelimiter separates cells in tabular sidecars
	TSVDelimiter = "\t"

	// JSONIndent is the indentation used for metadata documents
	JSONIndent = "    "
)

// Trial definition column names, in the order a trial table must start with.
const (
	TrialBeginColumn  = "begsample"
	TrialEndColumn    = "endsample"
	TrialOffsetColumn = "offset"
)

// Config constants
const (
	// EnvPrefix prefixes every environment variable read by the CLI
	EnvPrefix = "BIDSIFY"

	// ConfigName is the config file base name searched for by the CLI
	ConfigName = "bidsify"

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Format constants
const (
	// TimeFormatLog is the timestamp layout of console log output
	TimeFormatLog = "2006-01-02 15:04:05.000"
)
