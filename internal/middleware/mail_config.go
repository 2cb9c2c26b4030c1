package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireMailConfig rejects submissions up front when no mail backend is
// configured, instead of letting them fail inside the provider.
func RequireMailConfig(configured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !configured {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Email service is not configured.",
			})
			return
		}

		c.Next()
	}
}
