package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lectern/internal/media"
	"lectern/internal/pipeline"
	"lectern/internal/services"
)

// SourceValidator probes and validates one candidate source file.
// *media.Service satisfies it.
type SourceValidator interface {
	ValidateSource(ctx context.Context, path string) (media.ProbeResult, error)
}

// ExpandSources resolves the argument list into concrete chunk files.
// Directories contribute their immediate children with an allowed extension,
// sorted by name so chunk numbering is deterministic; explicit files pass
// through for the validator to judge.
func ExpandSources(paths []string, allowedExtensions []string) ([]string, error) {
	var sources []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "batch", "expand", "stat "+path, err)
		}
		if !info.IsDir() {
			sources = append(sources, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "batch", "expand", "read directory "+path, err)
		}
		var children []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if extensionAllowed(ext, allowedExtensions) {
				children = append(children, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(children)
		sources = append(sources, children...)
	}
	if len(sources) == 0 {
		return nil, services.Wrap(services.ErrValidation, "batch", "expand", "no chunk files found", nil)
	}
	return sources, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

// BuildJobs validates every source and derives its chunk job. Chunk IDs are
// assigned by position, starting at chunk_1. Any invalid source aborts the
// whole build so a batch never silently drops inputs.
func BuildJobs(ctx context.Context, validator SourceValidator, sources []string, sharedContext string) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(sources))
	for i, source := range sources {
		probe, err := validator.ValidateSource(ctx, source)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pipeline.Job{
			ChunkID:         fmt.Sprintf("chunk_%d", i+1),
			SourcePath:      source,
			SizeBytes:       probe.SizeBytes(),
			DurationSeconds: probe.DurationSeconds(),
			SharedContext:   sharedContext,
		})
	}
	return jobs, nil
}
