package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const reviewerIDKey = "reviewerId"

// ReviewerIdentity records who is driving an enhancement. Authentication is
// handled upstream of this service; the gateway forwards the identity in a
// header. Absent a header the caller is recorded as "anonymous" so audit
// records always carry an applied_by value.
func ReviewerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewer := strings.TrimSpace(c.GetHeader("X-Reviewer-Id"))
		if reviewer == "" {
			reviewer = "anonymous"
		}
		c.Set(reviewerIDKey, reviewer)
		c.Next()
	}
}

// ReviewerFromContext fetches the reviewer identity stored by ReviewerIdentity.
func ReviewerFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(reviewerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
