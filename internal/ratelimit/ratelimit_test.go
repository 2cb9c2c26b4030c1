package ratelimit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingStore struct {
	fetchErr error
	saveErr  error
	saved    int
}

func (s *failingStore) Fetch(context.Context, string) ([]time.Time, error) {
	return nil, s.fetchErr
}

func (s *failingStore) Save(context.Context, string, []time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved++
	return nil
}

func newTestLimiter(clock *fakeClock) (*Limiter, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, 10*time.Minute, 5, WithClock(clock.Now)), store
}

func TestAllow_UnderLimit(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		dec := limiter.Allow(context.Background(), "203.0.113.7")
		if !dec.Allowed {
			t.Fatalf("request %d: expected allowed", i+1)
		}
		if dec.RetryAfter != 0 {
			t.Fatalf("request %d: expected RetryAfter=0 when allowed, got %s", i+1, dec.RetryAfter)
		}
		clock.Advance(time.Second)
	}
}

func TestAllow_BlocksOverLimit(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if dec.Allowed {
		t.Fatal("sixth request: expected blocked")
	}
	if dec.RetryAfter < time.Second {
		t.Fatalf("expected RetryAfter of at least 1s, got %s", dec.RetryAfter)
	}
}

func TestAllow_BlockedRequestsStillRecorded(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 6; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	// Nine and a half minutes later the five admitted entries are still in
	// the window, and so is the recorded sixth. The key stays blocked.
	clock.Advance(9*time.Minute + 30*time.Second)
	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if dec.Allowed {
		t.Fatal("expected still blocked, rejected requests count toward the window")
	}
}

func TestAllow_WindowSlides(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	clock.Advance(10*time.Minute + time.Second)
	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if !dec.Allowed {
		t.Fatal("expected allowed after the window slid past the old entries")
	}
}

func TestAllow_PartialSlide(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 3; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	// Six minutes on, two more fill the bucket to five.
	clock.Advance(6 * time.Minute)
	for i := 0; i < 2; i++ {
		if dec := limiter.Allow(context.Background(), "203.0.113.7"); !dec.Allowed {
			t.Fatalf("request %d at +6m: expected allowed", i+4)
		}
	}

	// Five more minutes and the first three have aged out.
	clock.Advance(5 * time.Minute)
	if dec := limiter.Allow(context.Background(), "203.0.113.7"); !dec.Allowed {
		t.Fatal("expected allowed once the oldest entries left the window")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 6; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	if dec := limiter.Allow(context.Background(), "198.51.100.2"); !dec.Allowed {
		t.Fatal("a saturated key must not affect other keys")
	}
}

func TestAllow_RetryAfterTracksOldestEntry(t *testing.T) {
	clock := newFakeClock()
	limiter, _ := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		limiter.Allow(context.Background(), "203.0.113.7")
	}

	clock.Advance(4 * time.Minute)
	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if dec.Allowed {
		t.Fatal("expected blocked")
	}
	if want := 6 * time.Minute; dec.RetryAfter != want {
		t.Fatalf("RetryAfter: got %s, want %s", dec.RetryAfter, want)
	}
}

func TestAllow_FailsOpenOnFetchError(t *testing.T) {
	store := &failingStore{fetchErr: errors.New("connection refused")}
	limiter := New(store, 10*time.Minute, 5)

	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if !dec.Allowed {
		t.Fatal("fetch failure must admit the request")
	}
}

func TestAllow_FailsOpenOnSaveError(t *testing.T) {
	store := &failingStore{saveErr: errors.New("connection refused")}
	limiter := New(store, 10*time.Minute, 5)

	dec := limiter.Allow(context.Background(), "203.0.113.7")
	if !dec.Allowed {
		t.Fatal("save failure must admit the request")
	}
}

func TestAllow_StoreFailureIsLogged(t *testing.T) {
	var buf strings.Builder
	store := &failingStore{fetchErr: errors.New("connection refused")}
	limiter := New(store, 10*time.Minute, 5, WithLogger(zerolog.New(&buf)))

	limiter.Allow(context.Background(), "203.0.113.7")

	out := buf.String()
	if !strings.Contains(out, "admitting request") {
		t.Errorf("expected fail-open log entry, got %q", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("expected store error in log entry, got %q", out)
	}
}

func TestNew_GuardsBadConfig(t *testing.T) {
	limiter := New(NewMemoryStore(), 0, 0)

	if limiter.window != defaultWindow {
		t.Errorf("window: got %s, want default %s", limiter.window, defaultWindow)
	}
	if limiter.max != defaultMax {
		t.Errorf("max: got %d, want default %d", limiter.max, defaultMax)
	}
}
