package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type invocationKey struct{}

type invocation struct {
	id        string
	operation string
}

// ContextWithInvocation stores the invocation id and operation name on ctx so
// every log line of that invocation can be correlated.
func ContextWithInvocation(ctx context.Context, invocationID, operation string) context.Context {
	return context.WithValue(ctx, invocationKey{}, invocation{id: invocationID, operation: operation})
}

func invocationFrom(ctx context.Context) invocation {
	inv, _ := ctx.Value(invocationKey{}).(invocation)
	return inv
}

// InvocationIDFromContext returns the invocation id stored by ContextWithInvocation.
func InvocationIDFromContext(ctx context.Context) string { return invocationFrom(ctx).id }

// OperationFromContext returns the operation name stored by ContextWithInvocation.
func OperationFromContext(ctx context.Context) string { return invocationFrom(ctx).operation }

// WithContext returns a logger enriched with the invocation and trace ids found on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	fields := map[string]interface{}{}
	inv := invocationFrom(ctx)
	if inv.id != "" {
		fields[FieldInvocationID] = inv.id
	}
	if inv.operation != "" {
		fields[FieldOperation] = inv.operation
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields[FieldTraceID] = sc.TraceID().String()
		fields[FieldSpanID] = sc.SpanID().String()
	}
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields)
}

// WithContext returns a context-enriched logger from the global logger.
func WithContext(ctx context.Context) *Logger {
	return GetGlobalLogger().WithContext(ctx)
}
