package middleware

import (
	"errors"
	"net/http"

	"sportsstore/logger"
	"sportsstore/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Service errors keep their status; anything else is logged and hidden
// behind a 500.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}

		log.Error("Request failed",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
