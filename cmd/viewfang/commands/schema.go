package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/viewfang/pkg/emit"
)

// NewSchemaCommand creates the schema command, which prints the JSON
// Schema for one of the emitted document kinds.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <result|chunk|tail>",
		Short:     "Print the JSON Schema for an output document kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{emit.SchemaResult, emit.SchemaChunk, emit.SchemaTail},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := emit.SchemaJSON(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			return nil
		},
	}
}
