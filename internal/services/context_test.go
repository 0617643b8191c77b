package services_test

import (
	"context"
	"testing"

	"lectern/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "batch-42")
	ctx = services.WithChunkID(ctx, "chunk_3")
	ctx = services.WithStage(ctx, "transcription")

	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "batch-42" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if id, ok := services.ChunkIDFromContext(ctx); !ok || id != "chunk_3" {
		t.Fatalf("unexpected chunk id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcription" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
