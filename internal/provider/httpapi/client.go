package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"quoteform-backend/internal/logger"
	"quoteform-backend/internal/mailer"
	"quoteform-backend/internal/provider"
)

const (
	defaultTimeout = 30 * time.Second
	sendEmailPath  = "/v1/email"
)

// ErrTimeout is returned when the email service does not answer within the
// configured timeout.
var ErrTimeout = errors.New("email service: request timeout")

// Config holds the configuration for the email service client
type Config struct {
	BaseURL  string        // Email service URL
	APIToken string        // Bearer token
	Timeout  time.Duration // HTTP timeout (default 30s)
}

// Client is the transactional email service HTTP client
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ provider.Sender = (*Client)(nil)

// NewClient creates a new email service client with the given configuration
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger.AppLogger,
	}
}

// Name implements provider.Sender.
func (c *Client) Name() string { return "api" }

// Send posts the message to the email service and returns the message id it
// assigned, which may be empty when the service omits one.
func (c *Client) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	body, err := json.Marshal(buildSendRequest(msg))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		return "", err
	}

	var result SendEmailResponse
	if err := json.Unmarshal(resp, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.MessageID, nil
}

func buildSendRequest(msg *mailer.Message) SendEmailRequest {
	req := SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	for _, att := range msg.Attachments {
		req.Attachments = append(req.Attachments, Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}
	return req
}

// doRequest performs a single HTTP request with bearer authentication
func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	url := c.config.BaseURL + sendEmailPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIToken)

	c.logger.Debug().
		Str("url", url).
		Msg("sending request to email service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// handleErrorResponse turns an error body into a provider.Error when the
// service supplied a usable message, otherwise into an opaque error.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &provider.Error{
			StatusCode: statusCode,
			Message:    errResp.Message,
		}
	}
	return fmt.Errorf("email service returned status %d", statusCode)
}

// Close closes the HTTP client (releases idle connections)
func (c *Client) Close() {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
