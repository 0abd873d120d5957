package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// Allower decides whether a caller may proceed.  The redis-backed limiter
// satisfies this.
type Allower interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects callers that exceed their request budget.  Callers are
// keyed by client IP.
func RateLimit(limiter Allower) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":      apperrors.ErrCodeTooManyRequests.String(),
				"message":   "too many requests, slow down",
				"requestId": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
