package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery middleware catches panics, logs them with stack traces and the
// request's correlation id and identity, and returns a 500 error so request
// traceability survives the crash
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				attrs := []any{
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				}
				if correlationID := GetCorrelationID(c); correlationID != "" {
					attrs = append(attrs, "correlation_id", correlationID)
				}
				if identity := GetIdentity(c); !identity.IsZero() {
					attrs = append(attrs, "user_id", identity.UserID.String())
				}
				logger.Error("Panic recovered", attrs...)

				abortInternalError(c)
			}
		}()

		c.Next()
	}
}

func abortInternalError(c *gin.Context) {
	response := gin.H{
		"error": gin.H{
			"code":    "INTERNAL_SERVER_ERROR",
			"message": "An internal server error occurred",
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, response)
}
