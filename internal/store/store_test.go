package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lectern/internal/batch"
	"lectern/internal/config"
	"lectern/internal/pipeline"
	"lectern/internal/scoring"
	"lectern/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.ResultsDir = filepath.Join(root, "results")
	cfg.Paths.LogDir = filepath.Join(root, "logs")

	s, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleBatch(id string) *batch.Result {
	technical := 77.0
	return batch.Aggregate(id, []pipeline.Result{
		{
			ChunkID:    "chunk_1",
			SourcePath: "/videos/part1.mp4",
			Status:     pipeline.StatusSuccess,
			Score: &scoring.Score{
				Communication:  80.5,
				Engagement:     15,
				TechnicalDepth: &technical,
				Clarity:        74,
				Interaction:    69,
				Overall:        66.2,
			},
			ProcessingTime: 42 * time.Second,
		},
		{
			ChunkID:        "chunk_2",
			SourcePath:     "/videos/part2.mp4",
			Status:         pipeline.StatusFailed,
			ProcessingTime: 3 * time.Second,
			ErrorMessage:   "transcription: whisper: transcribe audio: exit status 1",
		},
	}, time.Minute)
}

func TestSaveAndGetBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := sampleBatch("batch-roundtrip")
	fingerprints := map[string]string{"chunk_1": "abc123", "chunk_2": "def456"}
	if err := s.SaveBatch(ctx, original, "operating systems lecture", fingerprints); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	loaded, err := s.GetBatch(ctx, "batch-roundtrip")
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if loaded.Status != batch.StatusPartial || loaded.TotalChunks != 2 {
		t.Fatalf("unexpected batch row: %+v", loaded)
	}
	if loaded.SharedContext != "operating systems lecture" {
		t.Errorf("shared context = %q", loaded.SharedContext)
	}
	if loaded.TotalWallTime != time.Minute {
		t.Errorf("wall time = %v, want 1m", loaded.TotalWallTime)
	}
	if loaded.CreatedAt.IsZero() {
		t.Error("created_at not recorded")
	}
	if len(loaded.Chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(loaded.Chunks))
	}

	first := loaded.Chunks[0]
	if first.ChunkID != "chunk_1" || first.Status != pipeline.StatusSuccess {
		t.Fatalf("first chunk = %+v", first)
	}
	if first.Overall != 66.2 || first.Communication != 80.5 {
		t.Errorf("scores not persisted: %+v", first)
	}
	if first.TechnicalDepth == nil || *first.TechnicalDepth != 77 {
		t.Errorf("technical depth = %v, want 77", first.TechnicalDepth)
	}
	if first.SourceFingerprint != "abc123" {
		t.Errorf("fingerprint = %q", first.SourceFingerprint)
	}
	if first.ProcessingTime != 42*time.Second {
		t.Errorf("processing time = %v", first.ProcessingTime)
	}

	second := loaded.Chunks[1]
	if second.Status != pipeline.StatusFailed || second.ErrorMessage == "" {
		t.Fatalf("second chunk = %+v", second)
	}
	if second.TechnicalDepth != nil {
		t.Errorf("failed chunk should have NULL technical depth, got %v", *second.TechnicalDepth)
	}
	if second.Overall != 0 {
		t.Errorf("failed chunk overall = %v, want 0", second.Overall)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetBatch(context.Background(), "no-such-batch")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListBatchesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveBatch(ctx, sampleBatch("batch-old"), "", nil); err != nil {
		t.Fatalf("save old: %v", err)
	}
	// created_at has second resolution; make the ordering unambiguous.
	time.Sleep(1100 * time.Millisecond)
	if err := s.SaveBatch(ctx, sampleBatch("batch-new"), "", nil); err != nil {
		t.Fatalf("save new: %v", err)
	}

	summaries, err := s.ListBatches(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	if summaries[0].BatchID != "batch-new" || summaries[1].BatchID != "batch-old" {
		t.Fatalf("order = %s, %s; want batch-new first", summaries[0].BatchID, summaries[1].BatchID)
	}
	// Only successful chunks feed the average overall.
	if summaries[0].AverageOverall != 66.2 {
		t.Errorf("average overall = %v, want 66.2", summaries[0].AverageOverall)
	}

	limited, err := s.ListBatches(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].BatchID != "batch-new" {
		t.Fatalf("limited = %+v, want just batch-new", limited)
	}
}

func TestSaveBatchRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.SaveBatch(ctx, sampleBatch("batch-dup"), "", nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveBatch(ctx, sampleBatch("batch-dup"), "", nil); err == nil {
		t.Fatal("expected primary key violation on duplicate batch id")
	}
}

func TestReopenKeepsData(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.ResultsDir = filepath.Join(root, "results")
	cfg.Paths.LogDir = filepath.Join(root, "logs")

	s, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveBatch(context.Background(), sampleBatch("batch-persist"), "", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(&cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetBatch(context.Background(), "batch-persist"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
