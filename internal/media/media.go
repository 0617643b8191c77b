package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Config captures runtime settings for media operations.
type Config struct {
	// FFmpegBinary is the ffmpeg command to execute.
	FFmpegBinary string
	// FFprobeBinary is the ffprobe command to execute.
	FFprobeBinary string
	// SampleRate is the audio extraction sample rate in Hz.
	SampleRate int
	// KeyframeIntervalSeconds controls how often a keyframe is captured.
	KeyframeIntervalSeconds int
	// AllowedExtensions lists acceptable source extensions (with leading dot).
	AllowedExtensions []string
	// MaxSizeBytes rejects sources larger than this (0 disables the check).
	MaxSizeBytes int64
	// MaxDurationSeconds rejects sources longer than this (0 disables the check).
	MaxDurationSeconds int
}

// Media operation defaults.
const (
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"

	DefaultSampleRate       = 16000
	DefaultKeyframeInterval = 2
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service provides ffmpeg/ffprobe media operations.
type Service struct {
	cfg    Config
	runner CommandRunner
}

// NewService creates a media service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	if cfg.FFprobeBinary == "" {
		cfg.FFprobeBinary = FFprobeCommand
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.KeyframeIntervalSeconds <= 0 {
		cfg.KeyframeIntervalSeconds = DefaultKeyframeInterval
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.runner = runner
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}
