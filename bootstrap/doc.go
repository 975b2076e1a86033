// Package bootstrap runs the engine-connector process lifecycle: typed
// config validation, logger setup, component start and stop, and lifecycle
// hooks.
//
// Run is for the long-running gateway (blocks on SIGINT/SIGTERM); RunTask is
// for one-shot commands whose context is canceled on the same signals.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(connector)
//	app.OnStop(telemetry.Shutdown)
//	err = app.Run(ctx)
package bootstrap
