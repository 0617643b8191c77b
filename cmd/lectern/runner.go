package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectern/internal/analysis"
	"lectern/internal/batch"
	"lectern/internal/config"
	"lectern/internal/fileutil"
	"lectern/internal/media"
	"lectern/internal/pipeline"
	"lectern/internal/preflight"
	"lectern/internal/scoring"
	"lectern/internal/services/llm"
	"lectern/internal/store"
	"lectern/internal/transcribe"
	"lectern/internal/worker"
)

// runOptions collects everything an analysis run needs beyond the config.
type runOptions struct {
	Sources       []string
	SharedContext string
	Mode          scoring.Mode
	Workers       int
	ChunkTimeout  time.Duration
}

func newMediaService(cfg *config.Config) *media.Service {
	return media.NewService(media.Config{
		FFmpegBinary:            cfg.FFmpegBinary(),
		FFprobeBinary:           cfg.FFprobeBinary(),
		SampleRate:              cfg.Media.SampleRate,
		KeyframeIntervalSeconds: cfg.Media.KeyframeIntervalSeconds,
		AllowedExtensions:       cfg.Media.AllowedExtensions,
		MaxSizeBytes:            cfg.MaxVideoSizeBytes(),
		MaxDurationSeconds:      cfg.Media.MaxDurationSeconds,
	})
}

func newTranscribeService(cfg *config.Config) *transcribe.Service {
	return transcribe.NewService(transcribe.Config{
		Binary:   cfg.WhisperBinary(),
		Model:    cfg.Transcription.Model,
		Language: cfg.Transcription.Language,
	})
}

// newAnalyzers builds the analyzer fan-out for the given mode. The technical
// depth analyzer only participates in full mode, and only when the LLM is
// configured.
func newAnalyzers(cfg *config.Config, mode scoring.Mode) []analysis.Analyzer {
	analyzers := []analysis.Analyzer{
		analysis.NewAudioAnalyzer(),
		analysis.NewEngagementAnalyzer(),
		analysis.NewVisualAnalyzer(),
	}
	if mode == scoring.ModeFull && cfg.LLM.Enabled {
		llmCfg := cfg.GetLLM()
		client := llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		})
		analyzers = append(analyzers, analysis.NewTechnicalAnalyzer(client))
	}
	return analyzers
}

// newRunnerFactory returns a worker.Factory producing fully isolated chunk
// runners. Each slot gets its own pipeline with fresh service instances so a
// reclaimed slot never shares state with an abandoned one.
func newRunnerFactory(cfg *config.Config, mode scoring.Mode, logger *slog.Logger) worker.Factory {
	return func() worker.Runner {
		return pipeline.New(pipeline.Config{
			StagingDir:              cfg.Paths.StagingDir,
			KeyframeIntervalSeconds: cfg.Media.KeyframeIntervalSeconds,
			AnalyzerTimeout:         time.Duration(cfg.Workers.AnalyzerTimeoutSeconds) * time.Second,
			Mode:                    mode,
		}, newMediaService(cfg), newTranscribeService(cfg), scoring.NewEngine(cfg.Scoring), newAnalyzers(cfg, mode), logger)
	}
}

// runAnalysis expands sources, builds jobs, processes them through the worker
// pool, and persists the batch. It returns the aggregated result.
func runAnalysis(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger, opts runOptions) (*batch.Result, error) {
	for _, status := range preflight.CheckSystemDeps(ctx, cfg) {
		if !status.Available {
			return nil, fmt.Errorf("missing required tool %s: %s", status.Name, status.Detail)
		}
	}

	svc := newMediaService(cfg)

	sources, err := batch.ExpandSources(opts.Sources, cfg.Media.AllowedExtensions)
	if err != nil {
		return nil, err
	}
	jobs, err := batch.BuildJobs(ctx, svc, sources, opts.SharedContext)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Workers.MaxWorkers
	}
	chunkTimeout := opts.ChunkTimeout
	if chunkTimeout <= 0 {
		chunkTimeout = time.Duration(cfg.Workers.ChunkTimeoutSeconds) * time.Second
	}

	pool, err := worker.NewPool(workers, chunkTimeout, newRunnerFactory(cfg, opts.Mode, logger), logger)
	if err != nil {
		return nil, err
	}

	result, err := batch.NewOrchestrator(pool, logger).Process(ctx, jobs)
	if err != nil {
		return nil, err
	}

	fingerprints := make(map[string]string, len(jobs))
	for _, job := range jobs {
		if fp, err := fileutil.Fingerprint(job.SourcePath); err == nil {
			fingerprints[job.ChunkID] = fp
		}
	}
	if err := st.SaveBatch(ctx, result, opts.SharedContext, fingerprints); err != nil {
		return nil, fmt.Errorf("save batch: %w", err)
	}
	return result, nil
}
