package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/version"
)

// startTime is the reference for uptime on /version and /livez.
var startTime = time.Now()

type versionBody struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// Version reports the build info of the running binary plus its uptime.
func Version(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, versionBody{
			Service: serviceName,
			Info:    version.Get(),
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
