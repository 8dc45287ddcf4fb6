package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"justeat/metrics"
)

// Metrics records request latency labelled by route template, so path
// parameters do not explode the label set.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
