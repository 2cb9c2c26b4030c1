// Package ratelimit admits or rejects requests using a trailing fixed-size
// window per key.
package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"quoteform-backend/internal/logger"
)

const (
	defaultWindow = 10 * time.Minute
	defaultMax    = 5
)

// Decision reports the outcome for one request.
type Decision struct {
	Allowed bool
	// RetryAfter is the suggested Retry-After value when blocked, never
	// below one second.
	RetryAfter time.Duration
}

// Limiter counts requests per key over a trailing window. Every request is
// recorded, including rejected ones, so hammering a blocked key keeps it
// blocked. Store failures admit the request.
type Limiter struct {
	store  Store
	window time.Duration
	max    int
	clock  func() time.Time
	logger zerolog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source, used for testing.
func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) { l.clock = clock }
}

// WithLogger overrides the logger used for store failures.
func WithLogger(lg zerolog.Logger) Option {
	return func(l *Limiter) { l.logger = lg }
}

// New creates a Limiter that admits at most max requests per key within the
// trailing window.
func New(store Store, window time.Duration, max int, opts ...Option) *Limiter {
	if window <= 0 {
		window = defaultWindow
	}
	if max <= 0 {
		max = defaultMax
	}

	l := &Limiter{
		store:  store,
		window: window,
		max:    max,
		clock:  time.Now,
		logger: logger.AppLogger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records the request under key and decides whether it is admitted.
// The bucket is pruned of entries that have left the window, the current
// timestamp is appended and the bucket is saved back before the count is
// checked, so a rejected request still pushes the window out.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	now := l.clock()

	bucket, err := l.store.Fetch(ctx, key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("rate limit fetch failed, admitting request")
		return Decision{Allowed: true}
	}

	cutoff := now.Add(-l.window)
	recent := make([]time.Time, 0, len(bucket)+1)
	for _, ts := range bucket {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	recent = append(recent, now)

	if err := l.store.Save(ctx, key, recent); err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("rate limit save failed, admitting request")
		return Decision{Allowed: true}
	}

	if len(recent) > l.max {
		return Decision{Allowed: false, RetryAfter: l.retryAfter(recent, now)}
	}

	return Decision{Allowed: true}
}

// retryAfter estimates how long until the oldest recorded entry leaves the
// window and frees a slot.
func (l *Limiter) retryAfter(bucket []time.Time, now time.Time) time.Duration {
	wait := time.Second
	if len(bucket) > 0 {
		if until := bucket[0].Add(l.window).Sub(now); until > wait {
			wait = until
		}
	}
	return wait
}
