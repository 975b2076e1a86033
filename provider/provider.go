package provider

import "context"

// Provider is anything an invocation can be routed to.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider can take work right now.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse runs one input to one output. The connector is the
// main implementation; middlewares and adapters wrap it.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Labeled is implemented by inputs that name the operation they request.
// Middlewares use the label for log fields, metric attributes and span names.
type Labeled interface {
	OperationName() string
}

// labelOf returns the input's operation label, or fallback.
func labelOf(input any, fallback string) string {
	if l, ok := input.(Labeled); ok {
		if name := l.OperationName(); name != "" {
			return name
		}
	}
	return fallback
}
