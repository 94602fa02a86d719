// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"puck_buddy_auth/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForCode maps taxonomy codes onto HTTP statuses for the debug API.
func statusForCode(code string) int {
	switch code {
	case common.CodeAccountNotFound:
		return http.StatusNotFound
	case common.CodeAccountExists, common.CodeAuthInProgress:
		return http.StatusConflict
	case common.CodePermissionDenied:
		return http.StatusForbidden
	case common.CodeAuthCancelled, common.CodeTokenExpired:
		return http.StatusUnauthorized
	case common.CodeInvalidEmail, common.CodeCOPPACompliance:
		return http.StatusBadRequest
	case common.CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors {
				authErr, isAuthErr := common.IsAuthError(ginErr.Err)

				if isAuthErr {
					c.AbortWithStatusJSON(statusForCode(authErr.Code), authErr)
				} else {
					logger.Error("Unhandled application error",
						zap.Error(ginErr.Err),
						zap.String("path", c.Request.URL.Path),
						zap.String("request_id", c.GetString(RequestIDContextKey)),
					)
					generic := common.ErrUnknown
					if gin.Mode() == gin.DebugMode && ginErr.Err != nil {
						generic = generic.WithDetails(common.SanitizeErrorMessage(ginErr.Err))
					}
					c.AbortWithStatusJSON(http.StatusInternalServerError, generic)
				}
				return
			}
		}

		if c.Writer.Status() == http.StatusNotFound && len(c.Errors) == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound,
				common.NewAuthError("NOT_FOUND", "The requested endpoint does not exist."))
		}
	}
}
