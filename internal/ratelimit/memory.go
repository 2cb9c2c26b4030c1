package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in a mutex-guarded map. It is the default store;
// its contents are lost on restart and are local to one process.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string][]time.Time)}
}

// Fetch implements Store. The returned slice is a copy.
func (s *MemoryStore) Fetch(_ context.Context, key string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[key]
	if !ok {
		return nil, nil
	}

	out := make([]time.Time, len(bucket))
	copy(out, bucket)
	return out, nil
}

// Save implements Store. The stored slice is a copy.
func (s *MemoryStore) Save(_ context.Context, key string, bucket []time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Time, len(bucket))
	copy(out, bucket)
	s.buckets[key] = out
	return nil
}

// Cleanup drops buckets whose newest entry is older than the cutoff.
func (s *MemoryStore) Cleanup(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, bucket := range s.buckets {
		if len(bucket) == 0 || !bucket[len(bucket)-1].After(cutoff) {
			delete(s.buckets, key)
		}
	}
}

// StartJanitor starts a goroutine that prunes idle buckets periodically.
// Stop it by cancelling the context.
func (s *MemoryStore) StartJanitor(ctx context.Context, every, idleTTL time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup(idleTTL)
			}
		}
	}()
}
