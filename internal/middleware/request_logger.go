package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whoniverse/archive/internal/logger"
)

// RequestLogger logs all HTTP requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for health checks
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"size", c.Writer.Size(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDKey),
		)
	}
}
