package ratelimit

import (
	"context"
	"time"
)

// Store persists per-key request timestamps for the trailing window. Fetch
// returns the stored bucket, empty when the key is unknown, and Save
// replaces it. Implementations must not retain or alias the slices they
// hand out or receive.
type Store interface {
	Fetch(ctx context.Context, key string) ([]time.Time, error)
	Save(ctx context.Context, key string, bucket []time.Time) error
}
