package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/component"
	"github.com/kbukum/engineconnector/observability"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that aggregates component health. It answers 503
// when any component is down.
func Health(serviceName, version string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(serviceName, version)
		if checker != nil {
			sh.AddComponents(checker(c.Request.Context()))
		}

		status := http.StatusOK
		if !sh.IsUp() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}
