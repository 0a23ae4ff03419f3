package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests over the limit with 429, keyed by client IP
func Middleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.AllowRequest(key) {
			stats := rl.GetStats(key)
			c.Header("Retry-After", "60")
			c.Header("X-RateLimit-Limit", strconv.Itoa(stats.LimitPerMinute))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
				"stats": stats,
			})
			return
		}
		c.Next()
	}
}

// StatsHandler reports the caller's current usage
func StatsHandler(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, rl.GetStats(c.ClientIP()))
	}
}
