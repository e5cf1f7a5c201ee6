package middleware

import (
	"strconv"
	"time"

	"prd-workspace/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template, so that
// document ids do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
