package main

import (
	"path/filepath"
	"testing"

	"lectern/internal/testsupport"
)

func TestBatchRejectsMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(testsupport.BaseDir(env.cfg), "missing.mp4")
	_, _, err := runCLI(t, []string{"batch", missing}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestBatchRejectsUnprobeableSource(t *testing.T) {
	env := setupCLITestEnv(t)

	// The stubbed ffprobe exits 0 without emitting JSON, so validation
	// fails before any chunk is submitted.
	source := filepath.Join(testsupport.BaseDir(env.cfg), "videos", "lecture.mp4")
	testsupport.WriteFile(t, source, 2048)

	_, _, err := runCLI(t, []string{"batch", source}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unprobeable source")
	}
}

func TestBatchSplitRequiresSingleSource(t *testing.T) {
	env := setupCLITestEnv(t)

	a := filepath.Join(testsupport.BaseDir(env.cfg), "a.mp4")
	b := filepath.Join(testsupport.BaseDir(env.cfg), "b.mp4")
	testsupport.WriteFile(t, a, 64)
	testsupport.WriteFile(t, b, 64)

	_, _, err := runCLI(t, []string{"batch", "--split", "60", a, b}, env.configPath)
	if err == nil {
		t.Fatal("expected error for --split with multiple sources")
	}
}
