package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps buckets in Redis so the window survives restarts and is
// shared between instances. Buckets are stored as JSON arrays of unix
// millisecond timestamps and expire after the TTL so idle keys clean
// themselves up.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithTTL overrides how long an idle bucket survives. It should not be
// shorter than the limiter window.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// NewRedisStore creates a store backed by the given client.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit:bucket",
		ttl:    defaultWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements Store.
func (s *RedisStore) Fetch(ctx context.Context, key string) ([]time.Time, error) {
	raw, err := s.rdb.Get(ctx, s.bucketKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bucket: %w", err)
	}

	var millis []int64
	if err := json.Unmarshal([]byte(raw), &millis); err != nil {
		return nil, fmt.Errorf("failed to decode bucket: %w", err)
	}

	bucket := make([]time.Time, 0, len(millis))
	for _, ms := range millis {
		bucket = append(bucket, time.UnixMilli(ms))
	}
	return bucket, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, bucket []time.Time) error {
	millis := make([]int64, 0, len(bucket))
	for _, ts := range bucket {
		millis = append(millis, ts.UnixMilli())
	}

	raw, err := json.Marshal(millis)
	if err != nil {
		return fmt.Errorf("failed to encode bucket: %w", err)
	}

	if err := s.rdb.Set(ctx, s.bucketKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save bucket: %w", err)
	}
	return nil
}

func (s *RedisStore) bucketKey(key string) string {
	return s.prefix + ":" + key
}
