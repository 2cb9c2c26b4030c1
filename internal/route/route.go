package route

import (
	"net/http"

	quote_handler "quoteform-backend/internal/app/handler/quote-handler"
	quote_service "quoteform-backend/internal/app/service/quote-service"
	"quoteform-backend/internal/config"
	"quoteform-backend/internal/middleware"
	"quoteform-backend/internal/provider"
	"quoteform-backend/internal/ratelimit"
	"quoteform-backend/internal/task"

	"github.com/gin-gonic/gin"
)

func InitRoutes(cfg *config.Config, sender provider.Sender, store ratelimit.Store, executor *task.Executor) *gin.Engine {

	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.HTTPLogger(),
		middleware.CORS(),
	)

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Quote route
	limiter := ratelimit.New(store, cfg.RateLimit.Window(), cfg.RateLimit.MaxRequests)
	quoteService := quote_service.NewQuoteService(sender, executor, cfg.Mail.From, cfg.Mail.To)
	quoteHandler := quote_handler.NewQuoteHandler(quoteService)

	quoteRoute := router.Group("/api")
	quoteRoute.Use(
		middleware.RequireMailConfig(cfg.MailConfigured() && sender != nil),
		middleware.RateLimit(limiter),
	)
	{
		quoteRoute.POST("/quote", quoteHandler.Submit)
	}

	return router
}
