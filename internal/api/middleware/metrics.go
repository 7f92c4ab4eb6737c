package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/metrics"
)

// CloudWatchMetrics records request count and latency per route
func CloudWatchMetrics(client *metrics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		client.RecordAPIRequest(endpoint, c.Writer.Status(), time.Since(start))
	}
}
