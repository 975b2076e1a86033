package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/observability"
	"github.com/kbukum/engineconnector/server"
	"github.com/kbukum/engineconnector/version"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose all operations over HTTP",
		Long: `Start the HTTP gateway and block until SIGINT or SIGTERM.

POST /v1/operations/<name> with {"config": {...}, "params": {...}} runs an
operation; the connection section of the config is the default for config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, conn, err := newApp(g)
			if err != nil {
				return err
			}
			cfg := app.Cfg
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			build := version.Get()
			tel, err := observability.Setup(cmd.Context(), cfg.Observability, observability.Identity{
				Service:     cfg.Name,
				Version:     build.Short(),
				Environment: cfg.Environment,
			})
			if err != nil {
				return err
			}
			app.OnStop(tel.Shutdown)

			srv := server.New(cfg.Server, app.Logger)
			server.NewGateway(conn, server.GatewayOptions{
				ServiceName: cfg.Name,
				Defaults:    cfg.Connection,
				Metrics:     tel.Metrics,
				Log:         app.Logger,
			}).Register(srv.GinEngine())
			srv.RegisterDefaultEndpoints(cfg.Name, build.Short(), app.Components.HealthAll, tel.Handler)
			srv.ApplyMiddleware(cfg.Name, tel.Metrics)

			if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	return cmd
}
