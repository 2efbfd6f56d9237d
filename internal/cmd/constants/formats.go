// Package constants provides shared constants for CLI commands.
package constants

// Output format constants used throughout the CLI.
const (
	// FormatTable is the default terminal output format.
	FormatTable = "table"

	// FormatJSON outputs data as JSON.
	FormatJSON = "json"

	// FormatYAML outputs data as YAML.
	FormatYAML = "yaml"

	// FormatMarkdown outputs markdown sections and tables.
	FormatMarkdown = "markdown"
)

// Formats lists every accepted output format.
var Formats = []string{FormatTable, FormatJSON, FormatYAML, FormatMarkdown}
