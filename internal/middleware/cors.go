package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS attaches the access-control headers to every response, error
// responses included, and answers preflight requests directly.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		c.Next()
	}
}
