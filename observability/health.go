package observability

import "github.com/kbukum/engineconnector/component"

// HealthStatus is the service status reported on /health.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// severity orders statuses; the service reports its worst component.
var severity = map[HealthStatus]int{
	HealthStatusUp:       0,
	HealthStatusDegraded: 1,
	HealthStatusDown:     2,
}

// Health is one component's line in a ServiceHealth.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ServiceHealth is the /health document.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts an empty report with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Version: version, Status: HealthStatusUp}
}

// AddComponent appends h. The overall status only ever gets worse.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)
	if severity[h.Status] > severity[sh.Status] {
		sh.Status = h.Status
	}
}

// AddComponents appends lifecycle reports: healthy is up, degraded stays
// degraded and anything else is down.
func (sh *ServiceHealth) AddComponents(reports []component.Health) {
	for _, r := range reports {
		status := HealthStatusDown
		switch r.Status {
		case component.StatusHealthy:
			status = HealthStatusUp
		case component.StatusDegraded:
			status = HealthStatusDegraded
		}
		sh.AddComponent(Health{Name: r.Name, Status: status, Message: r.Message})
	}
}

// IsUp reports whether probes should get a 200. Degraded counts as up.
func (sh *ServiceHealth) IsUp() bool { return sh.Status != HealthStatusDown }
