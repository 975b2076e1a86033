package provider

import (
	"context"
	"time"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/logger"
)

// WithLogging writes one line per execution: info on success, error with
// the error code on failure.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return decorate(inner, func(ctx context.Context, input I) (O, error) {
			began := time.Now()
			out, err := inner.Execute(ctx, input)

			fields := logger.MergeWithDuration(logger.Fields("provider", inner.Name()), time.Since(began))
			// the context carries the operation once tracing ran
			if logger.OperationFromContext(ctx) == "" {
				fields[logger.FieldOperation] = labelOf(input, "execute")
			}
			l := log.WithContext(ctx)
			if err == nil {
				l.Info("provider execute ok", fields)
				return out, nil
			}
			fields = logger.MergeWithError(fields, err)
			if appErr, ok := errors.AsAppError(err); ok {
				fields[logger.FieldErrorCode] = string(appErr.Code)
			}
			l.Error("provider execute failed", fields)
			return out, err
		})
	}
}
