package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latency and in-flight requests.  The route
// template is used as the path label so IDs do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, method, route, c.Writer.Status(), time.Since(start))
	}
}
