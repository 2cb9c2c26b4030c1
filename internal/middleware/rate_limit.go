package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quoteform-backend/internal/ratelimit"
)

// RateLimit rejects clients that exhausted the submission window. Blocked
// responses carry a Retry-After header with the seconds until a slot frees
// up.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.Request.Context(), clientKey(c))
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

// clientKey identifies the caller for rate limiting. Proxies in front of
// the app put the original caller first in X-Forwarded-For.
func clientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := c.GetHeader("Client-IP"); ip != "" {
		return ip
	}
	return "unknown"
}
