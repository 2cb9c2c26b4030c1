// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the quote form backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultWindowMinutes  = 10
	defaultMaxRequests    = 5
	defaultTimeoutSeconds = 30
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mail      MailConfig      `yaml:"mail"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// MailConfig holds outbound email configuration. Provider selects the
// delivery backend (api, ses, smtp, stdout); when empty the api backend
// is assumed.
type MailConfig struct {
	Provider       string     `yaml:"provider"`
	APIURL         string     `yaml:"api_url"`
	APIToken       string     `yaml:"api_token"`
	TimeoutSeconds int        `yaml:"timeout_seconds"`
	From           string     `yaml:"from"`
	To             string     `yaml:"to"`
	SES            SESConfig  `yaml:"ses"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

// SESConfig holds AWS SES credentials for the ses provider.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// SMTPConfig holds SMTP credentials for the smtp provider.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RateLimitConfig holds submission rate limit settings. A non-empty
// RedisAddr switches the limiter to a shared Redis-backed store.
type RateLimitConfig struct {
	WindowMinutes int    `yaml:"window_minutes"`
	MaxRequests   int    `yaml:"max_requests"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load loads configuration from environment variables with sensible
// defaults.
func Load() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// ResolvedProvider returns the configured mail provider. When none is set
// it resolves to api; the stdout backend must be selected explicitly.
func (c *Config) ResolvedProvider() string {
	if c.Mail.Provider != "" {
		return c.Mail.Provider
	}
	return "api"
}

// MailConfigured returns true when the resolved provider has everything it
// needs to send. Submissions are rejected with a server error until this
// holds.
func (c *Config) MailConfigured() bool {
	if c.Mail.From == "" || c.Mail.To == "" {
		return false
	}
	switch c.ResolvedProvider() {
	case "api":
		return c.APIConfigured()
	case "ses":
		return c.SESConfigured()
	case "smtp":
		return c.SMTPConfigured()
	case "stdout":
		return true
	}
	return false
}

// APIConfigured returns true if the email API credentials are set.
func (c *Config) APIConfigured() bool {
	return c.Mail.APIURL != "" && c.Mail.APIToken != ""
}

// SESConfigured returns true if the SES region is set.
func (c *Config) SESConfigured() bool {
	return c.Mail.SES.Region != ""
}

// SMTPConfigured returns true if the SMTP host is set.
func (c *Config) SMTPConfigured() bool {
	return c.Mail.SMTP.Host != ""
}

// Timeout returns the outbound email call timeout.
func (c *MailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Window returns the rate limit window.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Server.Listen = ":8080"
	c.Mail.TimeoutSeconds = defaultTimeoutSeconds
	c.Mail.SMTP.Port = 587
	c.RateLimit.WindowMinutes = defaultWindowMinutes
	c.RateLimit.MaxRequests = defaultMaxRequests
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("SERVER_LISTEN"); v != "" {
		c.Server.Listen = v
	}

	if v := os.Getenv("MAIL_PROVIDER"); v != "" {
		c.Mail.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("EMAIL_API_URL"); v != "" {
		c.Mail.APIURL = v
	}
	if v := os.Getenv("EMAIL_API_TOKEN"); v != "" {
		c.Mail.APIToken = v
	}
	if v := os.Getenv("EMAIL_API_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Mail.TimeoutSeconds = seconds
		}
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		c.Mail.From = v
	}
	if v := os.Getenv("MAIL_TO"); v != "" {
		c.Mail.To = v
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.Mail.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.Mail.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.Mail.SES.SecretAccessKey = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Mail.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Mail.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.Mail.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Mail.SMTP.Password = v
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			c.RateLimit.WindowMinutes = minutes
		}
	}
	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		if max, err := strconv.Atoi(v); err == nil && max > 0 {
			c.RateLimit.MaxRequests = max
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RateLimit.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RateLimit.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RateLimit.RedisDB = db
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if pretty, err := strconv.ParseBool(v); err == nil {
			c.Logging.Pretty = pretty
		}
	}
}
