package quote_handler

import "github.com/gin-gonic/gin"

type QuoteHandler interface {
	Submit(c *gin.Context)
}
