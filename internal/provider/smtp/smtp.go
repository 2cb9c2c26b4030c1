// Package smtp implements a Sender that delivers mail through a pooled SMTP
// connection.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	netsmtp "net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"quoteform-backend/internal/logger"
	"quoteform-backend/internal/mailer"
	"quoteform-backend/internal/provider"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	PoolSize int           // Number of connections in the pool (default: 4)
	Timeout  time.Duration // Timeout for sending email (default: 30s)
}

// Provider sends emails through a pooled SMTP connection. The pool comes up
// lazily on the first send, so construction never blocks on the network.
type Provider struct {
	config      Config
	pool        *email.Pool
	poolMu      sync.RWMutex
	initialized bool
	logger      zerolog.Logger
}

var _ provider.Sender = (*Provider)(nil)

// New creates a new Provider with the given configuration.
func New(cfg Config) *Provider {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Provider{
		config: cfg,
		logger: logger.AppLogger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// Send delivers a message through the pool. SMTP assigns no delivery id, so
// the returned id is always empty on success.
func (p *Provider) Send(_ context.Context, msg *mailer.Message) (string, error) {
	if err := p.ensurePool(); err != nil {
		return "", fmt.Errorf("failed to ensure SMTP pool: %w", err)
	}

	e := p.buildEmail(msg)

	p.poolMu.RLock()
	pool := p.pool
	p.poolMu.RUnlock()

	if pool == nil {
		return "", fmt.Errorf("SMTP pool is not initialized")
	}

	if err := pool.Send(e, p.config.Timeout); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return "", nil
}

// ensurePool ensures the pool is initialized
func (p *Provider) ensurePool() error {
	p.poolMu.RLock()
	if p.initialized && p.pool != nil {
		p.poolMu.RUnlock()
		return nil
	}
	p.poolMu.RUnlock()

	return p.initPool()
}

// initPool initializes the SMTP connection pool
func (p *Provider) initPool() error {
	p.poolMu.Lock()
	defer p.poolMu.Unlock()

	if p.initialized && p.pool != nil {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", p.config.Host, p.config.Port)
	auth := netsmtp.PlainAuth("", p.config.Username, p.config.Password, p.config.Host)

	pool, err := email.NewPool(addr, p.config.PoolSize, auth, &tls.Config{
		ServerName: p.config.Host,
	})
	if err != nil {
		return fmt.Errorf("failed to create email pool: %w", err)
	}

	p.pool = pool
	p.initialized = true

	return nil
}

// buildEmail builds an email.Email from an outbound message. Attachment
// payloads arrive base64 encoded; anything that fails to decode is skipped
// rather than failing the whole send.
func (p *Provider) buildEmail(msg *mailer.Message) *email.Email {
	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	e.HTML = []byte(msg.HTML)

	for _, att := range msg.Attachments {
		content, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(att.Content), ""))
		if err != nil {
			p.logger.Warn().
				Str("filename", att.Filename).
				Msg("skipping attachment with undecodable content")
			continue
		}
		_, _ = e.Attach(bytes.NewReader(content), att.Filename, att.ContentType)
	}

	return e
}

// Close closes the mailer and its connection pool
func (p *Provider) Close() {
	p.poolMu.Lock()
	defer p.poolMu.Unlock()

	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
		p.initialized = false
	}
}
