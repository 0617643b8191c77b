package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Command != present {
		t.Fatalf("expected resolved command %q, got %q", present, results[0].Command)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
}

func TestCheckBinariesUnconfigured(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "  "}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected unconfigured command to be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestResolveWhisperConfigured(t *testing.T) {
	tmp := t.TempDir()
	custom := filepath.Join(tmp, "my-whisper")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(custom, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := ResolveWhisper(custom)
	if !status.Available {
		t.Fatalf("expected configured binary to resolve, got detail %q", status.Detail)
	}
	if status.Command != custom {
		t.Fatalf("expected command %q, got %q", custom, status.Command)
	}
}

func TestResolveWhisperAlternateFallback(t *testing.T) {
	binDir := t.TempDir()
	alternate := filepath.Join(binDir, "whisper-ctranslate2")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(alternate, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := ResolveWhisper("whisper")
	if !status.Available {
		t.Fatalf("expected alternate to resolve, got detail %q", status.Detail)
	}
	if status.Command != alternate {
		t.Fatalf("expected command %q, got %q", alternate, status.Command)
	}
}

func TestResolveWhisperNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := ResolveWhisper("whisper")
	if status.Available {
		t.Fatal("expected whisper resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when whisper is unavailable")
	}
}

func TestToolVersion(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "versioned")
	script := []byte("#!/bin/sh\necho 'versioned 1.2.3'\necho 'build details'\nexit 0\n")
	if err := os.WriteFile(tool, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	got := ToolVersion(context.Background(), tool)
	if got != "versioned 1.2.3" {
		t.Fatalf("expected first version line, got %q", got)
	}
}

func TestToolVersionMissingBinary(t *testing.T) {
	t.Setenv("PATH", "")
	if got := ToolVersion(context.Background(), "definitely-not-here"); got != "" {
		t.Fatalf("expected empty version for missing binary, got %q", got)
	}
}
