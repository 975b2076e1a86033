package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/version"
)

func newVersionCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "engine-connector "+info.String())
			return nil
		},
	}
}
