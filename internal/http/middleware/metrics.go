package middleware

import (
	"strconv"
	"time"

	"tasktracker/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latencies per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		monitoring.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		monitoring.HTTPDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
