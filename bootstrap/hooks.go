package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// phase is a named list of hooks run in registration order.
type phase struct {
	name  string
	hooks []Hook
}

func (p *phase) add(hooks []Hook) { p.hooks = append(p.hooks, hooks...) }

// run stops at the first failing hook.
func (p *phase) run(ctx context.Context) error {
	for i, h := range p.hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook %d: %w", p.name, i, err)
		}
	}
	return nil
}

// OnStart hooks run after every component started, before the ready check.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart.add(hooks) }

// OnReady hooks run once the ready check is done, before the app waits or runs its task.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady.add(hooks) }

// OnStop hooks run first during shutdown, while components are still up.
// The telemetry flush is registered here.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop.add(hooks) }
