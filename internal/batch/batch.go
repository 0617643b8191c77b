// Package batch orchestrates chunk analysis across the worker pool and
// aggregates the per-chunk results into a batch summary.
package batch

import (
	"time"

	"lectern/internal/pipeline"
)

// Status is the terminal state of a whole batch.
type Status string

const (
	// StatusCompleted means every chunk succeeded.
	StatusCompleted Status = "completed"
	// StatusPartial means the batch had both successes and failures.
	StatusPartial Status = "partial"
	// StatusFailed means no chunk succeeded.
	StatusFailed Status = "failed"
)

// StatusFor derives the batch status from the success and failure counts.
func StatusFor(successful, failed int) Status {
	switch {
	case failed == 0:
		return StatusCompleted
	case successful == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Result summarizes one processed batch. Results preserves submission order
// regardless of completion order.
type Result struct {
	BatchID          string            `json:"batch_id"`
	TotalChunks      int               `json:"total_chunks"`
	SuccessfulChunks int               `json:"successful_chunks"`
	FailedChunks     int               `json:"failed_chunks"`
	Status           Status            `json:"status"`
	TotalWallTime    time.Duration     `json:"total_wall_time"`
	AverageChunkTime time.Duration     `json:"average_chunk_time"`
	Results          []pipeline.Result `json:"results"`
}

// Aggregate folds ordered chunk results into a batch summary. The average
// chunk time is the mean of per-chunk processing times, which under a
// concurrent pool exceeds the wall time share each chunk consumed.
func Aggregate(batchID string, results []pipeline.Result, wallTime time.Duration) *Result {
	successful := 0
	failed := 0
	var totalProcessing time.Duration
	for _, result := range results {
		if result.Status == pipeline.StatusSuccess {
			successful++
		} else {
			failed++
		}
		totalProcessing += result.ProcessingTime
	}

	var average time.Duration
	if len(results) > 0 {
		average = totalProcessing / time.Duration(len(results))
	}

	return &Result{
		BatchID:          batchID,
		TotalChunks:      len(results),
		SuccessfulChunks: successful,
		FailedChunks:     failed,
		Status:           StatusFor(successful, failed),
		TotalWallTime:    wallTime,
		AverageChunkTime: average,
		Results:          results,
	}
}
