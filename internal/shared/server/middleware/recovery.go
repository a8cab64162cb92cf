package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/shared/server/respond"
	"docguard-backend/internal/shared/telemetry"
)

// Recovery converts panics into a standardized 500 response. A panic
// mid-enhancement must never leak a half-written response body to the
// reviewer, so the handler chain is aborted after logging.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id":  RequestIDFromContext(c),
					"reviewer_id": ReviewerFromContext(c),
					"error":       rec,
					"stack":       string(debug.Stack()),
					"path":        c.Request.URL.Path,
					"method":      c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
