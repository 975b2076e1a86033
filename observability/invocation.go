package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Invocation tracks the span and the metrics of one connector invocation.
// A nil Metrics skips recording.
type Invocation struct {
	Service   string
	Operation string
	ID        string
	Metrics   *Metrics

	started time.Time
	span    trace.Span
}

type invocationKey struct{}

// StartInvocation opens spanName for inv and stores inv on the returned context.
func StartInvocation(ctx context.Context, inv Invocation, spanName string) (context.Context, *Invocation) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrServiceName, inv.Service),
		attribute.String(AttrOperationName, inv.Operation),
	}
	if inv.ID != "" {
		attrs = append(attrs, attribute.String(AttrInvocationID, inv.ID))
	}
	ctx, inv.span = StartSpan(ctx, spanName, trace.WithAttributes(attrs...))
	inv.started = time.Now()
	p := &inv
	return context.WithValue(ctx, invocationKey{}, p), p
}

// InvocationFromContext returns the invocation started on ctx, or nil.
func InvocationFromContext(ctx context.Context) *Invocation {
	inv, _ := ctx.Value(invocationKey{}).(*Invocation)
	return inv
}

// Elapsed is the time since StartInvocation.
func (inv *Invocation) Elapsed() time.Duration { return time.Since(inv.started) }

// End closes the span and records the invocation. code is the error kind
// and is ignored when err is nil.
func (inv *Invocation) End(ctx context.Context, code string, err error) {
	elapsed := inv.Elapsed()
	status := "ok"
	if err != nil {
		status = "error"
		inv.span.RecordError(err)
		inv.span.SetStatus(codes.Error, err.Error())
		inv.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if code != "" {
			inv.span.SetAttributes(attribute.String(AttrErrorCode, code))
		}
	}
	inv.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	inv.span.End()

	if inv.Metrics == nil {
		return
	}
	inv.Metrics.RecordOperation(ctx, inv.Service, inv.Operation, status, elapsed)
	if err != nil && code != "" {
		inv.Metrics.RecordError(ctx, code, inv.Operation)
	}
}
