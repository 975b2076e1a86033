package component

import "context"

// HealthStatus is the coarse state reported by a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's status line. Message explains anything other
// than healthy.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the process with a start/stop lifecycle: the
// connector and the HTTP gateway in front of it. Names must be unique
// within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what the startup log prints for a component, e.g.
// Type "connector" with Details "operations=54 max_concurrent=8".
// Port is zero when the component does not listen.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable components get a richer "component started" log line.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route served by a component.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider components have their routes logged at debug level on start.
type RouteProvider interface {
	Routes() []Route
}
