package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"user-mgmt-go/pkg/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panics into a 500 envelope.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			slog.String("request_id", GetRequestID(c)),
			slog.Any("panic", recovered),
			slog.String("stack", string(debug.Stack())),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.Result[any]{
			Code:    models.CodeError,
			Message: "internal server error",
		})
	})
}
