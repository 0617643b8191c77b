// Package pipeline runs the per-chunk analysis sequence: media extraction,
// transcription, the concurrent analyzer fan-out, and scoring. Extraction and
// transcription failures abort the chunk; a failing analyzer only degrades it
// to that analyzer's default metrics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lectern/internal/analysis"
	"lectern/internal/logging"
	"lectern/internal/scoring"
	"lectern/internal/services"
	"lectern/internal/textutil"
	"lectern/internal/transcribe"
)

// Stage names used in logs and error details.
const (
	StageExtraction    = "extraction"
	StageTranscription = "transcription"
	StageAnalysis      = "analysis"
	StageScoring       = "scoring"
)

// Job describes one chunk to analyze.
type Job struct {
	ChunkID         string  `json:"chunk_id"`
	SourcePath      string  `json:"source_path"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	SharedContext   string  `json:"shared_context,omitempty"`
}

// Status is the terminal state of one chunk.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the outcome of running the pipeline on one chunk. Failed chunks
// carry the zero-valued metrics bundle and no score.
type Result struct {
	ChunkID        string          `json:"chunk_id"`
	SourcePath     string          `json:"source_path"`
	Status         Status          `json:"status"`
	Metrics        analysis.Bundle `json:"metrics"`
	Score          *scoring.Score  `json:"scores,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
	ErrorMessage   string          `json:"error,omitempty"`
}

// Extractor pulls the audio track and keyframes out of a chunk.
// *media.Service satisfies it.
type Extractor interface {
	ExtractAudio(ctx context.Context, source, dest string) error
	ExtractKeyframes(ctx context.Context, source, destDir string) ([]string, error)
}

// Transcriber turns an extracted audio track into a transcript.
// *transcribe.Service satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir string) (transcribe.Result, error)
}

// Config carries the pipeline's fixed settings.
type Config struct {
	// StagingDir is where per-chunk scratch directories are created.
	StagingDir string
	// KeyframeIntervalSeconds is forwarded to analyzers that reason about
	// time between keyframes.
	KeyframeIntervalSeconds int
	// AnalyzerTimeout bounds each analyzer in the fan-out stage.
	AnalyzerTimeout time.Duration
	// Mode selects the scoring weight table.
	Mode scoring.Mode
}

// Pipeline executes the stages for a single chunk. It is safe for concurrent
// use: each Analyze call works in its own staging directory.
type Pipeline struct {
	cfg         Config
	extractor   Extractor
	transcriber Transcriber
	analyzers   []analysis.Analyzer
	engine      *scoring.Engine
	logger      *slog.Logger
}

// New assembles a pipeline. The analyzer list determines the fan-out; callers
// include the technical-depth analyzer only in full mode.
func New(cfg Config, extractor Extractor, transcriber Transcriber, engine *scoring.Engine, analyzers []analysis.Analyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.AnalyzerTimeout <= 0 {
		cfg.AnalyzerTimeout = 2 * time.Minute
	}
	return &Pipeline{
		cfg:         cfg,
		extractor:   extractor,
		transcriber: transcriber,
		analyzers:   analyzers,
		engine:      engine,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Analyze runs every stage for the job and always returns a Result; stage
// failures are folded into a failed Result rather than an error so callers
// can aggregate mixed batches.
func (p *Pipeline) Analyze(ctx context.Context, job Job) Result {
	start := time.Now()
	ctx = services.WithChunkID(ctx, job.ChunkID)
	logger := p.logger.With(logging.String(logging.FieldChunkID, job.ChunkID))

	workDir := filepath.Join(p.cfg.StagingDir, textutil.SanitizeToken(job.ChunkID))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		wrapped := services.Wrap(services.ErrConfiguration, StageExtraction, "staging", "create work directory", err)
		return p.failed(logger, job, start, wrapped)
	}
	defer os.RemoveAll(workDir)

	audioPath, keyframes, err := p.extract(ctx, job, workDir)
	if err != nil {
		return p.failed(logger, job, start, err)
	}

	transcript, err := p.transcribe(ctx, audioPath, workDir)
	if err != nil {
		return p.failed(logger, job, start, err)
	}

	bundle := p.fanOut(ctx, logger, analysis.Input{
		AudioPath:               audioPath,
		KeyframePaths:           keyframes,
		KeyframeIntervalSeconds: p.cfg.KeyframeIntervalSeconds,
		Transcript:              transcript.Text,
		TranscriptConfidence:    transcript.Confidence,
		SharedContext:           job.SharedContext,
	})

	score, err := p.engine.Score(p.cfg.Mode, &bundle)
	if err != nil {
		wrapped := services.Wrap(services.ErrConfiguration, StageScoring, "score", "compute scores", err)
		return p.failed(logger, job, start, wrapped)
	}

	elapsed := time.Since(start)
	logger.Info("chunk analyzed",
		logging.String(logging.FieldStage, StageScoring),
		logging.Float64("overall_score", score.Overall),
		logging.Duration("processing_time", elapsed))
	return Result{
		ChunkID:        job.ChunkID,
		SourcePath:     job.SourcePath,
		Status:         StatusSuccess,
		Metrics:        bundle,
		Score:          score,
		ProcessingTime: elapsed,
	}
}

func (p *Pipeline) extract(ctx context.Context, job Job, workDir string) (string, []string, error) {
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := p.extractor.ExtractAudio(ctx, job.SourcePath, audioPath); err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, StageExtraction, "audio", "extract audio track", err)
	}
	keyframeDir := filepath.Join(workDir, "keyframes")
	keyframes, err := p.extractor.ExtractKeyframes(ctx, job.SourcePath, keyframeDir)
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, StageExtraction, "keyframes", "extract keyframes", err)
	}
	return audioPath, keyframes, nil
}

func (p *Pipeline) transcribe(ctx context.Context, audioPath, workDir string) (transcribe.Result, error) {
	result, err := p.transcriber.Transcribe(ctx, audioPath, workDir)
	if err != nil {
		return transcribe.Result{}, services.Wrap(services.ErrExternalTool, StageTranscription, "whisper", "transcribe audio", err)
	}
	return result, nil
}

// fanOut runs every analyzer concurrently and assembles the bundle. Analyzer
// failures and timeouts substitute that analyzer's default metrics.
func (p *Pipeline) fanOut(ctx context.Context, logger *slog.Logger, input analysis.Input) analysis.Bundle {
	bundle := analysis.Bundle{
		Transcript:           input.Transcript,
		TranscriptConfidence: input.TranscriptConfidence,
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, analyzer := range p.analyzers {
		wg.Add(1)
		go func(analyzer analysis.Analyzer) {
			defer wg.Done()
			metrics := p.runAnalyzer(ctx, logger, analyzer, input)
			mu.Lock()
			defer mu.Unlock()
			if err := bundle.Set(metrics); err != nil {
				logging.WarnWithContext(logger, "analyzer produced unknown metrics", "analyzer_failed",
					logging.String("analyzer", string(analyzer.Kind())),
					logging.Error(err))
			}
		}(analyzer)
	}
	wg.Wait()
	return bundle
}

// runAnalyzer bounds one analyzer with the configured timeout. A hung
// analyzer goroutine is abandoned; its eventual result goes to a buffered
// channel nobody reads.
func (p *Pipeline) runAnalyzer(ctx context.Context, logger *slog.Logger, analyzer analysis.Analyzer, input analysis.Input) analysis.Metrics {
	actx, cancel := context.WithTimeout(ctx, p.cfg.AnalyzerTimeout)
	defer cancel()

	type outcome struct {
		metrics analysis.Metrics
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("analyzer panic: %v", r)}
			}
		}()
		metrics, err := analyzer.Analyze(actx, input)
		done <- outcome{metrics: metrics, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil || out.metrics == nil {
			logging.WarnWithContext(logger, "analyzer failed, using defaults", "analyzer_failed",
				logging.String("analyzer", string(analyzer.Kind())),
				logging.String(logging.FieldStage, StageAnalysis),
				logging.Error(out.err))
			return analysis.DefaultMetrics(analyzer.Kind())
		}
		return out.metrics
	case <-actx.Done():
		logging.WarnWithContext(logger, "analyzer timed out, using defaults", "analyzer_timeout",
			logging.String("analyzer", string(analyzer.Kind())),
			logging.String(logging.FieldStage, StageAnalysis))
		return analysis.DefaultMetrics(analyzer.Kind())
	}
}

// failed builds the terminal result for a chunk whose extraction or
// transcription stage broke: all-zero metrics, no score.
func (p *Pipeline) failed(logger *slog.Logger, job Job, start time.Time, err error) Result {
	logging.ErrorWithContext(logger, "chunk failed", "chunk_failed", logging.Error(err))
	return Result{
		ChunkID:        job.ChunkID,
		SourcePath:     job.SourcePath,
		Status:         StatusFailed,
		Metrics:        analysis.Bundle{},
		ProcessingTime: time.Since(start),
		ErrorMessage:   services.Details(err).Message,
	}
}
