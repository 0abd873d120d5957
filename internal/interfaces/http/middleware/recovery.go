package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// Recovery turns panics into 500 responses with the standard error envelope
// instead of dropped connections.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":      apperrors.ErrCodeInternal.String(),
					"message":   "internal server error",
					"requestId": GetRequestID(c),
				})
			}
		}()
		c.Next()
	}
}
