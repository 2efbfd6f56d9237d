// Package schema provides the schema command.
package schema

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/schema"
)

var kinds = map[string][]schema.Kind{
	"anat": {schema.KindGeneric, schema.KindAnatomical},
	"meg":  {schema.KindGeneric, schema.KindRecording},
}

// NewCommand creates the schema command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <anat|meg>",
		Short:     "Print the JSON Schema metadata documents are validated against",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"anat", "meg"},
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := kinds[args[0]]
			if !ok {
				return errors.NewValidationError("kind", args[0], "must be anat or meg")
			}
			doc, err := schema.JSONSchema(k...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return err
		},
	}
}
