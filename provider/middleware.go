package provider

import (
	"context"
	"slices"
)

// Middleware wraps a provider with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain folds middlewares into one, outermost first:
// Chain(tracing, logging)(p) runs tracing around logging around p.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(middlewares) {
			p = mw(p)
		}
		return p
	}
}

// decorated keeps the inner provider's name and availability and replaces Execute.
type decorated[I, O any] struct {
	RequestResponse[I, O]
	exec func(context.Context, I) (O, error)
}

func (d *decorated[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return d.exec(ctx, input)
}

func decorate[I, O any](inner RequestResponse[I, O], exec func(context.Context, I) (O, error)) RequestResponse[I, O] {
	return &decorated[I, O]{RequestResponse: inner, exec: exec}
}
