package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/visitgraph/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count per route.
// The websocket route is counted but not timed since its duration is the
// lifetime of the connection.
func PrometheusMiddleware(untimed ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(untimed))
	for _, p := range untimed {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath() // route pattern keeps graph names out of the labels
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if _, ok := skip[path]; ok {
			return
		}
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
