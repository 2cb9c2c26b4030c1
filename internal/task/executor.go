// Package task runs fire-and-forget jobs on a small worker pool.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quoteform-backend/internal/logger"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 64
	defaultTimeout   = 30 * time.Second
)

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// Executor runs background jobs detached from the request that spawned
// them. Each job gets a fresh context with the configured timeout, so a
// finished request never cancels an in-flight job. Job failures are logged
// and go nowhere else.
type Executor struct {
	jobs    chan job
	timeout time.Duration
	workers int
	queue   int
	logger  zerolog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.queue = n
		}
	}
}

// WithTimeout sets the per-job timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger overrides the logger used for job failures.
func WithLogger(lg zerolog.Logger) Option {
	return func(e *Executor) { e.logger = lg }
}

// New creates an Executor and starts its workers.
func New(opts ...Option) *Executor {
	e := &Executor{
		timeout: defaultTimeout,
		workers: defaultWorkers,
		queue:   defaultQueueSize,
		logger:  logger.AppLogger,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.jobs = make(chan job, e.queue)
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}

	return e
}

// Submit queues fn for execution under the given name. It reports false
// when the executor is closed or the queue is full; the job is dropped in
// both cases.
func (e *Executor) Submit(name string, fn func(ctx context.Context) error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}

	select {
	case e.jobs <- job{name: name, fn: fn}:
		return true
	default:
		e.logger.Warn().Str("task", name).Msg("task queue full, dropping task")
		return false
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.jobs)
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for j := range e.jobs {
		e.run(j)
	}
}

func (e *Executor) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := j.fn(ctx); err != nil {
		e.logger.Error().Err(err).Str("task", j.name).Msg("background task failed")
	}
}
