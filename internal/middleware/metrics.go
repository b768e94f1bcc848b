package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/daycare-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request latency per route template. Event streams stay
// open for minutes and are excluded from the latency histogram.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		switch {
		case route == "":
			route = unmatchedRoute
		case strings.Contains(route, "/streams/"):
			return
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
