package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/component"
)

func probeBody(status, serviceName string) gin.H {
	return gin.H{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// Liveness answers 200 while the process can serve HTTP at all.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := probeBody("alive", serviceName)
		body["uptime_seconds"] = int64(time.Since(startTime).Seconds())
		c.JSON(http.StatusOK, body)
	}
}

// Readiness answers 503 while any component reports unhealthy, e.g. before
// the connector started or after it stopped. Degraded still counts as ready.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var failing []string
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				if h.Status == component.StatusUnhealthy {
					failing = append(failing, h.Name)
				}
			}
		}
		if len(failing) == 0 {
			c.JSON(http.StatusOK, probeBody("ready", serviceName))
			return
		}
		body := probeBody("not_ready", serviceName)
		body["failing"] = failing
		c.JSON(http.StatusServiceUnavailable, body)
	}
}
