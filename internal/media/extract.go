package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ExtractAudio extracts the audio track from a source file. The output is a
// mono WAV file at the configured sample rate, suitable for both transcription
// and waveform analysis.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	if source == "" {
		return fmt.Errorf("extract audio: source path required")
	}
	if dest == "" {
		return fmt.Errorf("extract audio: dest path required")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract audio: ensure dest dir: %w", err)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(s.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
	if _, err := s.run(ctx, s.cfg.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// ExtractKeyframes captures one JPEG frame per configured interval into
// destDir and returns the frame paths in capture order.
func (s *Service) ExtractKeyframes(ctx context.Context, source, destDir string) ([]string, error) {
	if source == "" {
		return nil, fmt.Errorf("extract keyframes: source path required")
	}
	if destDir == "" {
		return nil, fmt.Errorf("extract keyframes: destDir required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("extract keyframes: ensure destDir: %w", err)
	}

	pattern := filepath.Join(destDir, "frame_%04d.jpg")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vf", fmt.Sprintf("fps=1/%d", s.cfg.KeyframeIntervalSeconds),
		"-q:v", "2",
		pattern,
	}
	if _, err := s.run(ctx, s.cfg.FFmpegBinary, args...); err != nil {
		return nil, fmt.Errorf("extract keyframes: %w", err)
	}

	frames, err := filepath.Glob(filepath.Join(destDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("extract keyframes: list frames: %w", err)
	}
	sort.Strings(frames)
	return frames, nil
}
