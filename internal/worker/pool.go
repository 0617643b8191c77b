// Package worker provides the bounded pool that runs chunk pipelines
// concurrently. Each slot owns its own runner so per-slot state (loaded
// models, scratch caches) is never shared, and a slot whose chunk overruns
// the deadline is rebuilt with a fresh runner while the hung work is
// abandoned.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lectern/internal/logging"
	"lectern/internal/pipeline"
	"lectern/internal/services"
)

// DefaultSize is the pool size used when the caller passes a non-positive one.
const DefaultSize = 3

// Runner executes the pipeline for one chunk. *pipeline.Pipeline satisfies
// it. A Runner is only ever used by one slot at a time.
type Runner interface {
	Analyze(ctx context.Context, job pipeline.Job) pipeline.Result
}

// Factory builds a fresh runner for a slot, both at pool construction and
// when a timed-out slot is reclaimed.
type Factory func() Runner

type slot struct {
	id     int
	runner Runner
}

// Pool runs up to size chunks concurrently. Submission always returns a
// future immediately; execution waits for a free slot, and completion order
// is whatever the work dictates.
type Pool struct {
	slots        chan *slot
	factory      Factory
	chunkTimeout time.Duration
	logger       *slog.Logger
}

// NewPool builds a pool of size slots, each with its own runner from
// factory. chunkTimeout bounds every submitted chunk; it must be positive.
func NewPool(size int, chunkTimeout time.Duration, factory Factory, logger *slog.Logger) (*Pool, error) {
	if factory == nil {
		return nil, fmt.Errorf("worker pool: factory required")
	}
	if chunkTimeout <= 0 {
		return nil, fmt.Errorf("worker pool: chunk timeout must be positive, got %v", chunkTimeout)
	}
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pool{
		slots:        make(chan *slot, size),
		factory:      factory,
		chunkTimeout: chunkTimeout,
		logger:       logging.NewComponentLogger(logger, "worker"),
	}
	for i := 0; i < size; i++ {
		p.slots <- &slot{id: i, runner: factory()}
	}
	return p, nil
}

// Size returns the number of slots.
func (p *Pool) Size() int { return cap(p.slots) }

// Submit queues the job and returns its future without waiting for a slot.
// Execution starts once a slot frees up; if ctx ends while the job is still
// queued, the future resolves to a failed result without consuming a slot.
// The returned future resolves exactly once.
func (p *Pool) Submit(ctx context.Context, job pipeline.Job) (*Future, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	future := &Future{done: make(chan struct{})}
	queued := time.Now()
	go func() {
		select {
		case s := <-p.slots:
			p.run(ctx, s, job, future)
		case <-ctx.Done():
			future.complete(p.abortedResult(job, queued, ctx.Err()))
		}
	}()
	return future, nil
}

func (p *Pool) run(ctx context.Context, s *slot, job pipeline.Job, future *Future) {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, p.chunkTimeout)
	defer cancel()

	results := make(chan pipeline.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- p.abortedResult(job, start, fmt.Errorf("runner panic: %v", r))
			}
		}()
		results <- s.runner.Analyze(cctx, job)
	}()

	select {
	case result := <-results:
		p.slots <- s
		future.complete(result)
	case <-cctx.Done():
		// The runner may be wedged inside an external tool. Abandon it and
		// rebuild the slot so pool capacity is not lost.
		p.slots <- &slot{id: s.id, runner: p.factory()}
		err := services.Wrap(services.ErrTimeout, "worker", "run",
			fmt.Sprintf("chunk did not finish within %s", p.chunkTimeout), nil)
		if ctx.Err() != nil && cctx.Err() != context.DeadlineExceeded {
			err = ctx.Err()
		}
		logging.WarnWithContext(p.logger, "slot reclaimed", "slot_reclaimed",
			logging.String(logging.FieldChunkID, job.ChunkID),
			logging.Int("slot", s.id),
			logging.Error(err))
		future.complete(p.abortedResult(job, start, err))
	}
}

// abortedResult synthesizes a failed result for work the pool gave up on.
func (p *Pool) abortedResult(job pipeline.Job, start time.Time, err error) pipeline.Result {
	return pipeline.Result{
		ChunkID:        job.ChunkID,
		SourcePath:     job.SourcePath,
		Status:         pipeline.StatusFailed,
		ProcessingTime: time.Since(start),
		ErrorMessage:   services.Details(err).Message,
	}
}

// Future resolves to the result of one submitted chunk.
type Future struct {
	once   sync.Once
	done   chan struct{}
	result pipeline.Result
}

func (f *Future) complete(result pipeline.Result) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

// Wait blocks until the chunk finished, timed out, or was abandoned.
func (f *Future) Wait() pipeline.Result {
	<-f.done
	return f.result
}
