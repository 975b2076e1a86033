package operations

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/engineconnector/component"
	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/resilience"
)

// DefaultName is the connector's provider and component name.
const DefaultName = "engine-connector"

// Invocation is one request to run a named operation.
type Invocation struct {
	Operation string                      `json:"operation"`
	Config    httpclient.ConnectionConfig `json:"config"`
	Params    Params                      `json:"params,omitempty"`
}

// OperationName implements provider.Labeled.
func (in Invocation) OperationName() string { return in.Operation }

// Connector dispatches invocations to registered operations. It implements
// provider.RequestResponse[Invocation, any] and component.Component.
type Connector struct {
	name     string
	invoker  Invoker
	registry *Registry
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
	running  atomic.Bool
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithName overrides DefaultName.
func WithName(name string) ConnectorOption {
	return func(c *Connector) { c.name = name }
}

// WithRegistry replaces the built-in operations.
func WithRegistry(r *Registry) ConnectorOption {
	return func(c *Connector) { c.registry = r }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) ConnectorOption {
	return func(c *Connector) { c.log = log }
}

// WithMaxConcurrent caps in-flight invocations. Callers beyond the cap wait
// up to maxWait, then fail with CONNECTOR_BUSY. Zero or less means no cap.
func WithMaxConcurrent(maxConcurrent int, maxWait time.Duration) ConnectorOption {
	return func(c *Connector) {
		c.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          c.name,
			MaxConcurrent: maxConcurrent,
			MaxWait:       maxWait,
			OnReject: func(name string) {
				c.log.Warn("connector busy, invocation rejected", logger.Fields("max_concurrent", maxConcurrent))
			},
		})
	}
}

// NewConnector creates a connector sending calls through inv.
func NewConnector(inv Invoker, opts ...ConnectorOption) *Connector {
	c := &Connector{
		name:     DefaultName,
		invoker:  inv,
		registry: DefaultRegistry(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the connector name.
func (c *Connector) Name() string { return c.name }

// IsAvailable reports whether the connector can take invocations. The daemon
// is only contacted by CheckHealth.
func (c *Connector) IsAvailable(_ context.Context) bool {
	return c.invoker != nil
}

// Operations returns the supported operation names in sorted order.
func (c *Connector) Operations() []string {
	return c.registry.Names()
}

// Execute runs the named operation. Unknown names fail with UNSUPPORTED_OPERATION.
func (c *Connector) Execute(ctx context.Context, in Invocation) (any, error) {
	op, ok := c.registry.Lookup(in.Operation)
	if !ok {
		return nil, errors.UnsupportedOperation(in.Operation)
	}
	id := logger.InvocationIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logger.ContextWithInvocation(ctx, id, in.Operation)
	log := c.log.WithContext(ctx)

	start := time.Now()
	out, err := resilience.Do(ctx, c.bulkhead, func(ctx context.Context) (any, error) {
		return op(ctx, c.invoker, in.Config, in.Params)
	})
	fields := logger.MergeWithDuration(nil, time.Since(start))
	if err != nil {
		log.Debug("operation failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	log.Debug("operation completed", fields)
	return out, nil
}

// Start marks the connector as running.
func (c *Connector) Start(_ context.Context) error {
	c.running.Store(true)
	c.log.Info("connector started", logger.Fields("operations", c.registry.Len()))
	return nil
}

// Stop marks the connector as stopped. Calls in flight are not interrupted.
func (c *Connector) Stop(_ context.Context) error {
	c.running.Store(false)
	return nil
}

// Health reports the connector's own state without contacting a daemon.
func (c *Connector) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.name, Status: component.StatusHealthy}
	switch {
	case !c.running.Load():
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.bulkhead != nil && c.bulkhead.InUse() >= c.bulkhead.MaxConcurrent():
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("all %d invocation slots in use", c.bulkhead.MaxConcurrent())
	}
	return h
}

// Describe implements component.Describable.
func (c *Connector) Describe() component.Description {
	details := fmt.Sprintf("operations=%d", c.registry.Len())
	if n := c.bulkhead.MaxConcurrent(); n > 0 {
		details += fmt.Sprintf(" max_concurrent=%d", n)
	}
	return component.Description{Name: "Engine Connector", Type: "connector", Details: details}
}
