package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/internal/logger"
)

// RecoveryMiddleware recovers from panics, logs the stack trace, and returns a
// standardized 500 ErrorResponse. If a streaming response already started, the
// connection is simply aborted since headers cannot be rewritten.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Get(RequestIDKey)
				logger.L().Error().
					Str("request_id", toString(rid)).
					Str("path", c.Request.URL.Path).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				AbortWithError(c, http.StatusInternalServerError, "internal server error", fmt.Errorf("%v", r))
			}
		}()

		c.Next()
	}
}
