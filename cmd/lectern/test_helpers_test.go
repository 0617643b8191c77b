package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lectern/internal/batch"
	"lectern/internal/config"
	"lectern/internal/pipeline"
	"lectern/internal/scoring"
	"lectern/internal/store"
	"lectern/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenStore(t, cfg),
		configPath: configPath,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstaging_dir = %q\nresults_dir = %q\nlog_dir = %q\n",
		cfg.Paths.StagingDir,
		cfg.Paths.ResultsDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func scorePtr(v float64) *float64 { return &v }

// seedBatch stores a two-chunk batch and returns its ID.
func seedBatch(t *testing.T, st *store.Store) string {
	t.Helper()

	result := &batch.Result{
		BatchID:          "11111111-2222-4333-8444-555555555555",
		TotalChunks:      2,
		SuccessfulChunks: 1,
		FailedChunks:     1,
		Status:           batch.StatusPartial,
		TotalWallTime:    5 * time.Second,
		AverageChunkTime: 2 * time.Second,
		Results: []pipeline.Result{
			{
				ChunkID:    "chunk_1",
				SourcePath: "/videos/lecture-a.mp4",
				Status:     pipeline.StatusSuccess,
				Score: &scoring.Score{
					Communication:  80.5,
					Engagement:     42.0,
					TechnicalDepth: scorePtr(55.5),
					Clarity:        74.0,
					Interaction:    69.0,
					Overall:        66.2,
				},
				ProcessingTime: 2 * time.Second,
			},
			{
				ChunkID:        "chunk_2",
				SourcePath:     "/videos/lecture-b.mp4",
				Status:         pipeline.StatusFailed,
				ProcessingTime: 2 * time.Second,
				ErrorMessage:   "extraction failed",
			},
		},
	}
	if err := st.SaveBatch(context.Background(), result, "intro lecture", nil); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	return result.BatchID
}
