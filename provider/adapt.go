package provider

import (
	"context"
	"fmt"
)

// Adapt exposes inner under the front types I and O.
//
// in turns a front input into the backend's input; when it fails the
// backend is never called. out converts the result. A nil out hands the
// backend result through unchanged, which requires it to be an O at
// runtime. An empty name keeps the backend's name.
func Adapt[I, O, BI, BO any](
	inner RequestResponse[BI, BO],
	name string,
	in func(ctx context.Context, input I) (BI, error),
	out func(output BO) (O, error),
) RequestResponse[I, O] {
	if name == "" {
		name = inner.Name()
	}
	return adapter[I, O, BI, BO]{inner: inner, name: name, in: in, out: out}
}

type adapter[I, O, BI, BO any] struct {
	inner RequestResponse[BI, BO]
	name  string
	in    func(context.Context, I) (BI, error)
	out   func(BO) (O, error)
}

func (a adapter[I, O, BI, BO]) Name() string { return a.name }

func (a adapter[I, O, BI, BO]) IsAvailable(ctx context.Context) bool {
	return a.inner.IsAvailable(ctx)
}

func (a adapter[I, O, BI, BO]) Execute(ctx context.Context, input I) (result O, err error) {
	req, err := a.in(ctx, input)
	if err != nil {
		return result, err
	}
	res, err := a.inner.Execute(ctx, req)
	if err != nil {
		return result, err
	}
	if a.out != nil {
		return a.out(res)
	}
	v, ok := any(res).(O)
	if !ok {
		return result, fmt.Errorf("provider %s: %T is not a valid output", a.name, res)
	}
	return v, nil
}
