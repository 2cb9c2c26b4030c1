package quote_handler

import (
	"net/http"

	quote_service "quoteform-backend/internal/app/service/quote-service"
	"quoteform-backend/internal/helper"
	"quoteform-backend/internal/model/webrequest"

	"github.com/gin-gonic/gin"
)

type QuoteHandlerImpl struct {
	QuoteService quote_service.QuoteService
}

func (Q *QuoteHandlerImpl) Submit(c *gin.Context) {
	var request webrequest.QuoteRequest
	if err := helper.ReadJSON(c, &request); err != nil {
		helper.WriteJSON(c, http.StatusBadRequest, gin.H{"error": "Invalid JSON body."})
		return
	}

	response, statusCode := Q.QuoteService.Submit(c, request)

	helper.WriteJSON(c, statusCode, response)
}

func NewQuoteHandler(service quote_service.QuoteService) QuoteHandler {
	return &QuoteHandlerImpl{
		QuoteService: service,
	}
}
