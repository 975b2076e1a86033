package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/component"
)

func newHealthCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured engine API is reachable",
		Long: `Ping the configured engine API and report the result.

Exits with status 1 when the engine is configured but not reachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, conn, err := newApp(g)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(ctx context.Context) error {
				var raw map[string]any
				if len(app.Cfg.Connection) > 0 {
					raw = app.Cfg.Connection
				}
				report := conn.CheckHealth(ctx, raw)
				if g.jsonOutput {
					if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), report.Message)
				}
				if report.Status == component.StatusUnhealthy {
					return fmt.Errorf("engine API not reachable")
				}
				return nil
			})
		},
	}
}
