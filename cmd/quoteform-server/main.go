package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/alecthomas/kingpin.v2"

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

func main() {
	app := kingpin.New("quoteform-server", "Backend for the quote request form")
	configPath := app.Flag("config", "Path to a YAML config file").Envar("CONFIG_FILE").Short('c').String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize the logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	if !cfg.MailConfigured() {
		logger.AppLogger.Warn().Msg("Mail backend not fully configured, submissions will be rejected")
	}

	sender, err := selectSender(cfg)
	if err != nil {
		logger.AppLogger.Fatal().Err(err).Msg("Error initializing email provider")
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	store := selectStore(rootCtx, cfg)
	executor := task.New(task.WithTimeout(cfg.Mail.Timeout()))

	// Initialize the server
	router := route.InitRoutes(cfg, sender, store, executor)

	srv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: router,
	}

	// Run server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.AppLogger.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	logger.AppLogger.Info().
		Str("addr", cfg.Server.Listen).
		Str("provider", sender.Name()).
		Msg("Server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.AppLogger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown the server gracefully
	if err := srv.Shutdown(ctx); err != nil {
		logger.AppLogger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Flush queued confirmation emails before the provider goes away
	executor.Close()
	closeSender(sender)

	logger.AppLogger.Info().Msg("Server exited gracefully")
}

// loadConfig loads configuration from the specified path (YAML + env
// override) or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load(), nil
}

// selectSender chooses the email delivery backend based on configuration.
func selectSender(cfg *config.Config) (provider.Sender, error) {
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

// selectStore picks the rate limit backend. Redis keeps counts shared
// across instances; the in-memory store is per-process best-effort.
func selectStore(ctx context.Context, cfg *config.Config) ratelimit.Store {
	if cfg.RateLimit.RedisAddr != "" {
		logger.AppLogger.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("Using Redis rate limit store")
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		return ratelimit.NewRedisStore(rdb, ratelimit.WithTTL(cfg.RateLimit.Window()))
	}

	store := ratelimit.NewMemoryStore()
	store.StartJanitor(ctx, time.Minute, cfg.RateLimit.Window())
	return store
}

func closeSender(s provider.Sender) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}
