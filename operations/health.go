package operations

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/engineconnector/component"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/logger"
)

const (
	healthPrefix      = "Connector is Available - "
	healthPingTimeout = 10 * time.Second
)

// HealthReport is the result of probing a daemon. The connector itself is
// always available, so Message always starts with "Connector is Available".
type HealthReport struct {
	Status    component.HealthStatus `json:"status"`
	Reachable bool                   `json:"reachable"`
	Message   string                 `json:"message"`
}

// CheckHealth pings the daemon described by raw, a configuration map as
// accepted by httpclient.ConnectionConfigFromMap. It never fails: problems
// are reported in the message.
func (c *Connector) CheckHealth(ctx context.Context, raw map[string]any) HealthReport {
	if len(raw) == 0 {
		return degraded("No configuration provided")
	}
	cfg, err := httpclient.ConnectionConfigFromMap(raw)
	if err != nil {
		c.log.Error("health check failed", logger.ErrorFields("check_health", err))
		return degraded("Health check error: " + err.Error())
	}
	if strings.TrimSpace(cfg.ServerAddress) == "" {
		return degraded("Server address not configured")
	}

	out, err := c.invoker.Invoke(ctx, cfg, httpclient.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/_ping",
		Timeout:  healthPingTimeout,
	})
	if err != nil {
		c.log.WithContext(ctx).Warn("engine API ping failed", logger.ErrorFields("check_health", err))
		return HealthReport{
			Status:  component.StatusUnhealthy,
			Message: healthPrefix + "Engine API not reachable: " + err.Error(),
		}
	}
	if strings.Contains(string(out.Body), "OK") {
		return HealthReport{
			Status:    component.StatusHealthy,
			Reachable: true,
			Message:   healthPrefix + "Engine API is reachable",
		}
	}
	return HealthReport{
		Status:    component.StatusDegraded,
		Reachable: true,
		Message:   healthPrefix + "Engine API responded but with unexpected result",
	}
}

func degraded(reason string) HealthReport {
	return HealthReport{Status: component.StatusDegraded, Message: healthPrefix + reason}
}
