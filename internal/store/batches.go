package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lectern/internal/batch"
	"lectern/internal/pipeline"
	"lectern/internal/services"
)

// Chunk is one persisted chunk row.
type Chunk struct {
	Position             int
	ChunkID              string
	SourcePath           string
	SourceFingerprint    string
	Status               pipeline.Status
	Communication        float64
	Engagement           float64
	Clarity              float64
	Interaction          float64
	TechnicalDepth       *float64
	Overall              float64
	Transcript           string
	TranscriptConfidence float64
	ProcessingTime       time.Duration
	ErrorMessage         string
}

// Batch is one persisted batch with its chunk rows in submission order.
type Batch struct {
	BatchID          string
	Status           batch.Status
	TotalChunks      int
	SuccessfulChunks int
	FailedChunks     int
	TotalWallTime    time.Duration
	AverageChunkTime time.Duration
	SharedContext    string
	CreatedAt        time.Time
	Chunks           []Chunk
}

// Summary is the listing row for one batch.
type Summary struct {
	BatchID          string
	Status           batch.Status
	TotalChunks      int
	SuccessfulChunks int
	FailedChunks     int
	AverageOverall   float64
	CreatedAt        time.Time
}

const chunkColumns = `position, chunk_id, source_path, source_fingerprint, status,
communication_score, engagement_score, clarity_score, interaction_score,
technical_depth_score, overall_score, transcript, transcript_confidence,
processing_time_ms, error_message`

// SaveBatch persists a batch result and all its chunk rows in one
// transaction. fingerprints is keyed by chunk ID and may be nil.
func (s *Store) SaveBatch(ctx context.Context, result *batch.Result, sharedContext string, fingerprints map[string]string) error {
	if result == nil {
		return services.Wrap(services.ErrValidation, "store", "save", "nil batch result", nil)
	}
	ctx = ensureContext(ctx)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		createdAt := time.Now().UTC().Format(time.RFC3339)
		_, err = tx.ExecContext(ctx, `
INSERT INTO batches (id, status, total_chunks, successful_chunks, failed_chunks,
    total_wall_time_ms, average_chunk_time_ms, shared_context, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.BatchID, string(result.Status),
			result.TotalChunks, result.SuccessfulChunks, result.FailedChunks,
			result.TotalWallTime.Milliseconds(), result.AverageChunkTime.Milliseconds(),
			sharedContext, createdAt)
		if err != nil {
			return fmt.Errorf("insert batch %s: %w", result.BatchID, err)
		}

		for position, chunk := range result.Results {
			var (
				communication, engagement, clarity, interaction, overall float64
				technical                                                *float64
			)
			if chunk.Score != nil {
				communication = chunk.Score.Communication
				engagement = chunk.Score.Engagement
				clarity = chunk.Score.Clarity
				interaction = chunk.Score.Interaction
				technical = chunk.Score.TechnicalDepth
				overall = chunk.Score.Overall
			}
			_, err = tx.ExecContext(ctx, `
INSERT INTO chunks (batch_id, `+chunkColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				result.BatchID, position, chunk.ChunkID, chunk.SourcePath,
				fingerprints[chunk.ChunkID], string(chunk.Status),
				communication, engagement, clarity, interaction,
				technical, overall,
				chunk.Metrics.Transcript, chunk.Metrics.TranscriptConfidence,
				chunk.ProcessingTime.Milliseconds(), chunk.ErrorMessage)
			if err != nil {
				return fmt.Errorf("insert chunk %s: %w", chunk.ChunkID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch %s: %w", result.BatchID, err)
		}
		return nil
	})
}

// GetBatch loads one batch and its chunks. Missing batches yield a
// services.ErrNotFound wrapped error.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*Batch, error) {
	ctx = ensureContext(ctx)

	var (
		loaded    Batch
		wallMS    int64
		averageMS int64
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, status, total_chunks, successful_chunks, failed_chunks,
    total_wall_time_ms, average_chunk_time_ms, shared_context, created_at
FROM batches WHERE id = ?`, batchID).Scan(
		&loaded.BatchID, &loaded.Status,
		&loaded.TotalChunks, &loaded.SuccessfulChunks, &loaded.FailedChunks,
		&wallMS, &averageMS, &loaded.SharedContext, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get", "batch "+batchID, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("query batch %s: %w", batchID, err)
	}
	loaded.TotalWallTime = time.Duration(wallMS) * time.Millisecond
	loaded.AverageChunkTime = time.Duration(averageMS) * time.Millisecond
	loaded.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.QueryContext(ctx, `
SELECT `+chunkColumns+`
FROM chunks WHERE batch_id = ? ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query chunks for %s: %w", batchID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			chunk  Chunk
			procMS int64
		)
		if err := rows.Scan(
			&chunk.Position, &chunk.ChunkID, &chunk.SourcePath, &chunk.SourceFingerprint, &chunk.Status,
			&chunk.Communication, &chunk.Engagement, &chunk.Clarity, &chunk.Interaction,
			&chunk.TechnicalDepth, &chunk.Overall,
			&chunk.Transcript, &chunk.TranscriptConfidence,
			&procMS, &chunk.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		chunk.ProcessingTime = time.Duration(procMS) * time.Millisecond
		loaded.Chunks = append(loaded.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return &loaded, nil
}

// ListBatches returns the most recent batches, newest first. A non-positive
// limit returns everything.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]Summary, error) {
	ctx = ensureContext(ctx)

	query := `
SELECT b.id, b.status, b.total_chunks, b.successful_chunks, b.failed_chunks,
    COALESCE((SELECT AVG(c.overall_score) FROM chunks c
              WHERE c.batch_id = b.id AND c.status = 'success'), 0),
    b.created_at
FROM batches b ORDER BY b.created_at DESC, b.id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary   Summary
			createdAt string
		)
		if err := rows.Scan(&summary.BatchID, &summary.Status,
			&summary.TotalChunks, &summary.SuccessfulChunks, &summary.FailedChunks,
			&summary.AverageOverall, &createdAt); err != nil {
			return nil, fmt.Errorf("scan batch row: %w", err)
		}
		summary.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch rows: %w", err)
	}
	return summaries, nil
}
