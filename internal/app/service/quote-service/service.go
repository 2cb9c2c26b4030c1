package quote_service

import (
	"quoteform-backend/internal/model/webrequest"
	"quoteform-backend/internal/model/webresponse"

	"github.com/gin-gonic/gin"
)

type QuoteService interface {
	Submit(c *gin.Context, request webrequest.QuoteRequest) (webresponse.SubmitResponse, int)
}
