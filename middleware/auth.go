package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/login"

// RequireSession sends visitors without a live credential to the login
// page before the handler runs.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if !s.Authenticated(time.Now()) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
