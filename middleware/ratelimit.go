package middleware

import (
	"net/http"
	"time"

	"stocks-tracker-web/models"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter throttles each client IP to perSecond requests with the
// given burst. A non-positive perSecond disables it.
func RateLimiter(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := cache.New(10*time.Minute, 20*time.Minute)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if val, found := limiters.Get(ip); found {
			limiter = val.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
			if err := limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
				if val, found := limiters.Get(ip); found {
					limiter = val.(*rate.Limiter)
				}
			}
		}

		if !limiter.Allow() {
			c.Header("Retry-After", "5")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
				Success: false,
				Message: "Too many requests. Please wait 5 seconds before trying again.",
				Error:   "Rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
