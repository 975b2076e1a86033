// Package observability provides OpenTelemetry tracing and metrics for the
// connector and its gateway.
//
// Setup wires both from configuration:
//
//	id := observability.Identity{Service: "engine-connector", Version: version.Get().Short(), Environment: "production"}
//	tel, err := observability.Setup(ctx, cfg.Observability, id)
//	defer tel.Shutdown(ctx)
//
//	router.GET("/metrics", gin.WrapH(tel.Handler))
//
// Metrics are exported either through a Prometheus registry scraped on
// /metrics or pushed over OTLP HTTP. Spans are pushed over OTLP HTTP.
//
//	ctx, inv := observability.StartInvocation(ctx, observability.Invocation{
//		Service: "engine-connector", Operation: "list_containers", ID: id, Metrics: tel.Metrics,
//	}, observability.SpanInvocation)
//	defer inv.End(ctx, code, err)
//
// Health:
//
//	health := observability.NewServiceHealth("engine-connector", "1.0.0")
//	health.AddComponent(observability.Health{Name: "engine", Status: observability.HealthStatusUp})
package observability
