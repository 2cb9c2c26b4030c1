// Package handler exposes the quote form backend as a single serverless
// function. The router is built once per instance and reused across
// invocations.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"quoteform-backend/internal/config"
	"quoteform-backend/internal/logger"
	"quoteform-backend/internal/provider"
	"quoteform-backend/internal/provider/httpapi"
	"quoteform-backend/internal/provider/ses"
	"quoteform-backend/internal/provider/smtp"
	"quoteform-backend/internal/provider/stdout"
	"quoteform-backend/internal/ratelimit"
	"quoteform-backend/internal/route"
	"quoteform-backend/internal/task"
)

var (
	buildOnce sync.Once
	engine    *gin.Engine
)

// Handler is the entry point for serverless platforms.
func Handler(w http.ResponseWriter, r *http.Request) {
	buildOnce.Do(buildEngine)
	engine.ServeHTTP(w, r)
}

func buildEngine() {
	gin.SetMode(gin.ReleaseMode)

	cfg := config.Load()
	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	sender, err := buildSender(cfg)
	if err != nil {
		// Keep serving; the mail config guard rejects submissions until
		// the provider is fixed.
		logger.AppLogger.Error().Err(err).Msg("Error initializing email provider, submissions will be rejected")
		sender = nil
	}

	executor := task.New(task.WithTimeout(cfg.Mail.Timeout()))
	engine = route.InitRoutes(cfg, sender, buildStore(cfg), executor)
}

// buildSender constructs the configured delivery backend.
func buildSender(cfg *config.Config) (provider.Sender, error) {
	switch cfg.ResolvedProvider() {
	case "api":
		return httpapi.NewClient(httpapi.Config{
			BaseURL:  cfg.Mail.APIURL,
			APIToken: cfg.Mail.APIToken,
			Timeout:  cfg.Mail.Timeout(),
		}), nil

	case "ses":
		return ses.New(context.Background(), ses.Config{
			Region:          cfg.Mail.SES.Region,
			AccessKeyID:     cfg.Mail.SES.AccessKeyID,
			SecretAccessKey: cfg.Mail.SES.SecretAccessKey,
		})

	case "smtp":
		return smtp.New(smtp.Config{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			Timeout:  cfg.Mail.Timeout(),
		}), nil

	case "stdout":
		return stdout.New(), nil
	}

	return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
}

func buildStore(cfg *config.Config) ratelimit.Store {
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		return ratelimit.NewRedisStore(rdb, ratelimit.WithTTL(cfg.RateLimit.Window()))
	}

	store := ratelimit.NewMemoryStore()
	store.StartJanitor(context.Background(), time.Minute, cfg.RateLimit.Window())
	return store
}
