package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"honeypoty/backend/internal/monitoring"
)

// HTTPMetrics HTTP 指标中间件，未匹配路由统一记为 "unmatched"
func HTTPMetrics(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
