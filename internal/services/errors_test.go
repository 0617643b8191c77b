package services_test

import (
	"errors"
	"strings"
	"testing"

	"lectern/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "extraction", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extraction", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "analysis", "audio", "no samples", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestDetailsStripsMarker(t *testing.T) {
	err := services.Wrap(services.ErrTimeout, "transcription", "whisper", "deadline exceeded", nil)
	details := services.Details(err)
	if strings.Contains(details.Message, services.ErrTimeout.Error()) {
		t.Fatalf("expected marker stripped from %q", details.Message)
	}
	if !strings.Contains(details.Message, "transcription") {
		t.Fatalf("expected stage retained in %q", details.Message)
	}
}

func TestDetailsPassesThroughPlainErrors(t *testing.T) {
	err := errors.New("plain failure")
	if got := services.Details(err).Message; got != "plain failure" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := services.Details(nil).Message; got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}
