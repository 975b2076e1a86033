package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/operations"
)

func newOperationsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the supported operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := operations.DefaultRegistry().Names()
			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"operations": names, "count": len(names)})
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
