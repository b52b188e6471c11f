package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered",
					"error", err,
					"route", c.FullPath(),
					"stack", string(debug.Stack()),
				)

				body := gin.H{"error": "internal server error"}
				if requestID := GetRequestID(c); requestID != "" {
					body["requestId"] = requestID
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
