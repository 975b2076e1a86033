package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/observability"
)

// WithTracing opens a span named "{serviceName}.{operation}" around each
// execution. Contexts without an invocation id get a fresh UUID so the span
// and every log line below it share one.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return decorate(inner, func(ctx context.Context, input I) (O, error) {
			op := labelOf(input, inner.Name())
			id := logger.InvocationIDFromContext(ctx)
			if id == "" {
				id = uuid.NewString()
				ctx = logger.ContextWithInvocation(ctx, id, op)
			}

			ctx, inv := observability.StartInvocation(ctx, observability.Invocation{
				Service:   serviceName,
				Operation: op,
				ID:        id,
			}, serviceName+"."+op)
			out, err := inner.Execute(ctx, input)

			code := ""
			if err != nil {
				code = string(errors.From(err).Code)
			}
			inv.End(ctx, code, err)
			return out, err
		})
	}
}
