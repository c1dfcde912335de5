package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pennypulse/internal/domain/dto"
	"github.com/guttosm/pennypulse/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into a 500 ErrorResponse
// when the handler did not write a body itself.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	err := c.Errors.Last()
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Str("request_id", toString(rid)).Err(err.Err).Msg("request failed")

	if c.Writer.Written() {
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", err.Err))
}

// AbortWithError stops the chain and writes a standard ErrorResponse.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
