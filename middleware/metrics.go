package middleware

import (
	"context"
	"time"

	"sportsstore/logger"

	aws_pkg "sportsstore/pkg/aws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Metrics records request count, latency and errors to CloudWatch. It is a
// no-op when the client is nil or disabled.
func Metrics(client *aws_pkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusRange(status),
		}

		base := logger.WithRequestID(context.Background(), logger.RequestID(c))
		go func() {
			ctx, cancel := context.WithTimeout(base, 5*time.Second)
			defer cancel()
			if err := client.RecordCount(ctx, aws_pkg.MetricHTTPRequests, dims); err != nil {
				logger.Warn(ctx, "Failed to record request metric", zap.Error(err))
				return
			}
			_ = client.RecordLatency(ctx, aws_pkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = client.RecordCount(ctx, aws_pkg.MetricHTTPErrors, dims)
			}
		}()
	}
}

func statusRange(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "unknown"
	}
}
