package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lectern/internal/logging"
	"lectern/internal/pipeline"
	"lectern/internal/services"
	"lectern/internal/worker"
)

// Submitter schedules one chunk on the pool. *worker.Pool satisfies it.
type Submitter interface {
	Submit(ctx context.Context, job pipeline.Job) (*worker.Future, error)
}

// Orchestrator fans a batch of chunk jobs across the worker pool and waits
// for all of them.
type Orchestrator struct {
	pool   Submitter
	logger *slog.Logger
}

// NewOrchestrator builds an orchestrator on top of the pool.
func NewOrchestrator(pool Submitter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{pool: pool, logger: logging.NewComponentLogger(logger, "batch")}
}

// Process runs every job and aggregates the results in submission order.
// Chunk failures never fail the batch; only an inability to schedule work
// does. Each call mints a fresh batch ID.
func (o *Orchestrator) Process(ctx context.Context, jobs []pipeline.Job) (*Result, error) {
	if len(jobs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "batch", "process", "no chunks to analyze", nil)
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := o.logger.With(logging.String(logging.FieldBatchID, batchID))
	logger.Info("batch started", logging.Int("chunks", len(jobs)))

	start := time.Now()
	futures := make([]*worker.Future, 0, len(jobs))
	for _, job := range jobs {
		future, err := o.pool.Submit(ctx, job)
		if err != nil {
			// Drain what was already scheduled before reporting the
			// infrastructure failure.
			for _, pending := range futures {
				pending.Wait()
			}
			return nil, services.Wrap(services.ErrTransient, "batch", "submit", "schedule "+job.ChunkID, err)
		}
		futures = append(futures, future)
	}

	results := make([]pipeline.Result, 0, len(futures))
	for _, future := range futures {
		results = append(results, future.Wait())
	}

	wallTime := time.Since(start)
	result := Aggregate(batchID, results, wallTime)

	speedup := 0.0
	if wallTime > 0 {
		var totalProcessing time.Duration
		for _, chunk := range results {
			totalProcessing += chunk.ProcessingTime
		}
		speedup = float64(totalProcessing) / float64(wallTime)
	}
	logger.Info("batch finished",
		logging.String("status", string(result.Status)),
		logging.Int("successful", result.SuccessfulChunks),
		logging.Int("failed", result.FailedChunks),
		logging.Duration("wall_time", wallTime),
		logging.Float64("speedup", speedup))
	return result, nil
}
