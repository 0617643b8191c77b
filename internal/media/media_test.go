package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/services"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "30/1"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2}
  ],
  "format": {"filename": "lecture.mp4", "nb_streams": 2, "duration": "185.42", "size": "10485760", "format_name": "mov,mp4,m4a"}
}`

func stubRunner(t *testing.T, output string, capture *[][]string) CommandRunner {
	t.Helper()
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		if capture != nil {
			recorded := append([]string{name}, args...)
			*capture = append(*capture, recorded)
		}
		return []byte(output), nil
	}
}

func writeSource(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestProbeParsesStreams(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(stubRunner(t, probeJSON, nil))

	result, err := svc.Probe(context.Background(), "lecture.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 185.42 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 10485760 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	video, ok := result.FirstVideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if video.Width != 1280 || video.Height != 720 {
		t.Fatalf("unexpected dimensions: %dx%d", video.Width, video.Height)
	}
}

func TestProbeEmptyPath(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Probe(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestValidateSourceAccepts(t *testing.T) {
	source := writeSource(t, "lecture.mp4", 64)
	svc := NewService(Config{
		AllowedExtensions:  []string{".mp4", ".mkv"},
		MaxSizeBytes:       1 << 20,
		MaxDurationSeconds: 3600,
	})
	svc.WithCommandRunner(stubRunner(t, probeJSON, nil))

	probe, err := svc.ValidateSource(context.Background(), source)
	if err != nil {
		t.Fatalf("ValidateSource: %v", err)
	}
	if probe.DurationSeconds() != 185.42 {
		t.Fatalf("expected probe result returned, got duration %v", probe.DurationSeconds())
	}
}

func TestValidateSourceRejectsExtension(t *testing.T) {
	source := writeSource(t, "lecture.webm", 64)
	svc := NewService(Config{AllowedExtensions: []string{".mp4"}})
	svc.WithCommandRunner(stubRunner(t, probeJSON, nil))

	_, err := svc.ValidateSource(context.Background(), source)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateSourceRejectsOversize(t *testing.T) {
	source := writeSource(t, "lecture.mp4", 128)
	svc := NewService(Config{MaxSizeBytes: 64})
	svc.WithCommandRunner(stubRunner(t, probeJSON, nil))

	_, err := svc.ValidateSource(context.Background(), source)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateSourceRejectsOverlongDuration(t *testing.T) {
	source := writeSource(t, "lecture.mp4", 64)
	svc := NewService(Config{MaxDurationSeconds: 120})
	svc.WithCommandRunner(stubRunner(t, probeJSON, nil))

	_, err := svc.ValidateSource(context.Background(), source)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateSourceRejectsMissingFile(t *testing.T) {
	svc := NewService(Config{})
	_, err := svc.ValidateSource(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateSourceRejectsMissingVideoStream(t *testing.T) {
	source := writeSource(t, "audio-only.mp4", 64)
	audioOnly := `{"streams": [{"index": 0, "codec_type": "audio"}], "format": {"duration": "60"}}`
	svc := NewService(Config{})
	svc.WithCommandRunner(stubRunner(t, audioOnly, nil))

	_, err := svc.ValidateSource(context.Background(), source)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractAudioArgs(t *testing.T) {
	var calls [][]string
	svc := NewService(Config{SampleRate: 16000})
	svc.WithCommandRunner(stubRunner(t, "", &calls))

	dest := filepath.Join(t.TempDir(), "audio.wav")
	if err := svc.ExtractAudio(context.Background(), "lecture.mp4", dest); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 command, got %d", len(calls))
	}
	joined := strings.Join(calls[0], " ")
	for _, want := range []string{"-ac 1", "-ar 16000", "-c:a pcm_s16le", dest} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in command %q", want, joined)
		}
	}
}

func TestExtractKeyframesCollectsFrames(t *testing.T) {
	destDir := t.TempDir()
	svc := NewService(Config{KeyframeIntervalSeconds: 2})
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		for _, name := range []string{"frame_0002.jpg", "frame_0001.jpg"} {
			if err := os.WriteFile(filepath.Join(destDir, name), []byte("jpg"), 0o644); err != nil {
				t.Fatalf("write frame: %v", err)
			}
		}
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "fps=1/2") {
			t.Fatalf("expected fps filter in args: %q", joined)
		}
		return nil, nil
	})

	frames, err := svc.ExtractKeyframes(context.Background(), "lecture.mp4", destDir)
	if err != nil {
		t.Fatalf("ExtractKeyframes: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if filepath.Base(frames[0]) != "frame_0001.jpg" {
		t.Fatalf("expected frames sorted, got %v", frames)
	}
}

func TestSplitOrdersChunks(t *testing.T) {
	destDir := t.TempDir()
	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-segment_time 300") {
			t.Fatalf("expected segment_time in args: %q", joined)
		}
		for _, name := range []string{"lecture_chunk_001.mp4", "lecture_chunk_000.mp4"} {
			if err := os.WriteFile(filepath.Join(destDir, name), []byte("mp4"), 0o644); err != nil {
				t.Fatalf("write chunk: %v", err)
			}
		}
		return nil, nil
	})

	chunks, err := svc.Split(context.Background(), "/videos/lecture.mp4", destDir, 300)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if filepath.Base(chunks[0]) != "lecture_chunk_000.mp4" {
		t.Fatalf("expected chunks sorted, got %v", chunks)
	}
}

func TestSplitRejectsInvalidDuration(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Split(context.Background(), "lecture.mp4", t.TempDir(), 0); err == nil {
		t.Fatal("expected error for zero segment duration")
	}
}
