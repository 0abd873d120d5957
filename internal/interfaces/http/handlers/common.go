// Package handlers contains the gin endpoint handlers.  Handlers bind and
// validate input, delegate to the services, and translate coded errors into
// the HTTP envelope; they hold no business logic of their own.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/interfaces/http/middleware"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// errorBody is the error envelope every failing endpoint returns.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// respondError maps an error onto its HTTP status via the error-code table.
// Errors without an AppError in their chain are masked as internal errors so
// wrapped driver messages never leak to clients.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
			Code:      apperrors.ErrCodeInternal.String(),
			Message:   "internal server error",
			RequestID: middleware.GetRequestID(c),
		})
		return
	}

	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr.Code), errorBody{
		Code:      appErr.Code.String(),
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: middleware.GetRequestID(c),
	})
}

// respondBindError reports a request-body binding failure as a bad request.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
}
