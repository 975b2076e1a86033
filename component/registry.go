package component

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/engineconnector/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse. Register dependencies first.
type Registry struct {
	mu          sync.RWMutex
	components  []Component
	started     map[string]bool
	log         *logger.Logger
	stopTimeout time.Duration
}

// NewRegistry creates an empty registry. A nil log discards output.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		started:     map[string]bool{},
		log:         log.WithComponent("components"),
		stopTimeout: DefaultStopTimeout,
	}
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.components, func(c Component) bool { return c.Name() == name })
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts what is not running yet, in order, and stops at the first
// failure. Components started before the failure are left for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("starting components", logger.Fields("count", len(r.components)))
	for _, c := range r.components {
		name := c.Name()
		if r.started[name] {
			continue
		}
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true
		r.logStarted(c)
	}
	return nil
}

func (r *Registry) logStarted(c Component) {
	fields := logger.Fields(logger.FieldComponent, c.Name())
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		fields["type"], fields["details"] = desc.Type, desc.Details
		if desc.Port > 0 {
			fields["port"] = desc.Port
		}
	}
	r.log.Info("component started", fields)

	if rp, ok := c.(RouteProvider); ok {
		for _, rt := range rp.Routes() {
			r.log.Debug("route", logger.Fields(logger.FieldComponent, c.Name(),
				logger.FieldMethod, rt.Method, logger.FieldPath, rt.Path, "handler", rt.Handler))
		}
	}
}

// StopAll stops every started component in reverse order, each within the
// stop timeout, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, c := range slices.Backward(r.components) {
		name := c.Name()
		if !r.started[name] {
			continue
		}
		delete(r.started, name)

		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
			continue
		}
		r.log.Info("component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return stderrors.Join(errs...)
}

// HealthAll asks every registered component, started or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Health, len(r.components))
	for i, c := range r.components {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(name); i >= 0 {
		return r.components[i]
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.components)
}

// Len is the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
