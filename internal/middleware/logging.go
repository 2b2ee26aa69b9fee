package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with its status and latency once the
// handler chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if uid := GetUID(c); uid != "" {
			attrs = append(attrs, "uid", uid)
		}

		if len(c.Errors) > 0 {
			slog.Error("request failed", append(attrs, "errors", c.Errors.String())...)
			return
		}
		slog.Info("request completed", attrs...)
	}
}
