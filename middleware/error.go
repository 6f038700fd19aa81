package middleware

import (
	"context"
	"errors"
	"net/http"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/models"

	"github.com/gin-gonic/gin"
)

// Error renders the first error a handler recorded with c.Error into the
// JSON envelope.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, models.Response{
				Success: false,
				Error:   "request timed out",
			})
			return
		}

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors[0].Err

		var ce customerrors.CustomError
		if errors.As(err, &ce) {
			c.AbortWithStatusJSON(ce.StatusCode, models.Response{
				Success: false,
				Error:   ce.Error(),
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   err.Error(),
		})
	}
}
