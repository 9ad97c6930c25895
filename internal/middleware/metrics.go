package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/service"
)

// Metrics observes every request's method, route and status. Unmatched
// routes fall back to the raw path so 404 probes still show up, labelled
// individually.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
