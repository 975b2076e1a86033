package provider

import (
	"context"
	"time"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/observability"
)

// WithMetrics counts executions per operation and status, records their
// duration and counts failures by error code. A nil metrics set leaves the
// provider unwrapped.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if metrics == nil {
			return inner
		}
		return decorate(inner, func(ctx context.Context, input I) (O, error) {
			began := time.Now()
			out, err := inner.Execute(ctx, input)

			op, status := labelOf(input, "execute"), "ok"
			if err != nil {
				status = "error"
				metrics.RecordError(ctx, string(errors.From(err).Code), op)
			}
			metrics.RecordOperation(ctx, inner.Name(), op, status, time.Since(began))
			return out, err
		})
	}
}
