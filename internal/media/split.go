package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Split cuts a source video into fixed-duration chunk files using the ffmpeg
// segment muxer. Streams are copied without re-encoding, so cut points land on
// the nearest keyframe rather than exact second boundaries. Returns the chunk
// paths in playback order.
func (s *Service) Split(ctx context.Context, source, destDir string, segmentSeconds int) ([]string, error) {
	if source == "" {
		return nil, fmt.Errorf("split: source path required")
	}
	if destDir == "" {
		return nil, fmt.Errorf("split: destDir required")
	}
	if segmentSeconds <= 0 {
		return nil, fmt.Errorf("split: invalid segment duration %d", segmentSeconds)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("split: ensure destDir: %w", err)
	}

	ext := filepath.Ext(source)
	if ext == "" {
		ext = ".mp4"
	}
	base := strings.TrimSuffix(filepath.Base(source), ext)
	pattern := filepath.Join(destDir, base+"_chunk_%03d"+ext)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0",
		"-c", "copy",
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-reset_timestamps", "1",
		pattern,
	}
	if _, err := s.run(ctx, s.cfg.FFmpegBinary, args...); err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	chunks, err := filepath.Glob(filepath.Join(destDir, base+"_chunk_*"+ext))
	if err != nil {
		return nil, fmt.Errorf("split: list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("split: no chunks produced for %s", source)
	}
	sort.Strings(chunks)
	return chunks, nil
}
