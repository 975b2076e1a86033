package main

import (
	"github.com/kbukum/engineconnector/bootstrap"
	"github.com/kbukum/engineconnector/config"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/operations"
)

// newApp loads the config and builds the application with a registered,
// not yet started, connector.
func newApp(g *globalFlags) (*bootstrap.App[*config.AppConfig], *operations.Connector, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	log := app.Logger
	client := httpclient.New(httpclient.WithLogger(log.WithComponent("httpclient")))
	conn := operations.NewConnector(client,
		operations.WithName(cfg.Name),
		operations.WithLogger(log.WithComponent("connector")),
		operations.WithMaxConcurrent(cfg.Connector.MaxConcurrent, cfg.Connector.MaxWait),
	)
	if err := app.RegisterComponent(conn); err != nil {
		return nil, nil, err
	}
	return app, conn, nil
}
