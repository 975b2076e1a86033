// Package provider defines the request/response provider contract the
// connector implements, plus composable middleware around it.
//
// Middleware[I, O] wraps a RequestResponse provider. Use Chain to compose:
//
//	wrapped := provider.Chain(
//	    provider.WithTracing[operations.Invocation, any]("engine-connector"),
//	    provider.WithMetrics[operations.Invocation, any](metrics),
//	    provider.WithLogging[operations.Invocation, any](log),
//	)(connector)
//
// Inputs implementing Labeled are logged, measured and traced under their
// operation name. Adapt bridges a provider to different input and output
// types, which the gateway uses to turn request bodies into invocations.
package provider
