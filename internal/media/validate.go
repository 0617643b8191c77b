package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lectern/internal/services"
)

// ValidateSource checks a source file against the configured limits before it
// is admitted to a run. The probe result is returned so callers can reuse the
// container metadata without probing twice.
func (s *Service) ValidateSource(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source", "Source path is empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
				fmt.Sprintf("Source file does not exist: %s", path), nil)
		}
		return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
			fmt.Sprintf("Source file is not accessible: %s", path), err)
	}
	if info.IsDir() {
		return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
			fmt.Sprintf("Source is a directory, not a video file: %s", path), nil)
	}

	if len(s.cfg.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !extensionAllowed(ext, s.cfg.AllowedExtensions) {
			return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
				fmt.Sprintf("Unsupported file type %q (allowed: %s)", ext, strings.Join(s.cfg.AllowedExtensions, ", ")), nil)
		}
	}

	if s.cfg.MaxSizeBytes > 0 && info.Size() > s.cfg.MaxSizeBytes {
		return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
			fmt.Sprintf("File too large: %d bytes exceeds limit of %d bytes", info.Size(), s.cfg.MaxSizeBytes), nil)
	}

	probe, err := s.Probe(ctx, path)
	if err != nil {
		return ProbeResult{}, services.Wrap(services.ErrExternalTool, "media", "validate source",
			"Failed to probe source file", err)
	}

	if probe.VideoStreamCount() == 0 {
		return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
			fmt.Sprintf("No video stream found in %s", path), nil)
	}

	if s.cfg.MaxDurationSeconds > 0 {
		if duration := probe.DurationSeconds(); duration > float64(s.cfg.MaxDurationSeconds) {
			return ProbeResult{}, services.Wrap(services.ErrValidation, "media", "validate source",
				fmt.Sprintf("Video too long: %.0fs exceeds limit of %ds", duration, s.cfg.MaxDurationSeconds), nil)
		}
	}

	return probe, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}
