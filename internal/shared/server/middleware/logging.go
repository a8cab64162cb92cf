package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"reviewer_id": ReviewerFromContext(c),
			"client_ip":   c.ClientIP(),
		}
		for _, key := range []string{"validationId", "previewId", "enhancementId", "filePath"} {
			if raw, ok := c.Get(key); ok {
				fields[snakeKey(key)] = raw
			}
		}

		telemetry.Info("request.complete", fields)
	}
}

func snakeKey(key string) string {
	switch key {
	case "validationId":
		return "validation_id"
	case "previewId":
		return "preview_id"
	case "enhancementId":
		return "enhancement_id"
	case "filePath":
		return "file_path"
	default:
		return key
	}
}
