package analysis

import (
	"context"
	"errors"
	"strings"

	"lectern/internal/services/llm"
)

// DepthEvaluator is the slice of the LLM client the technical analyzer needs.
// *llm.Client satisfies it.
type DepthEvaluator interface {
	EvaluateTechnicalDepth(ctx context.Context, transcript, teachingContext string) (llm.TechnicalDepth, error)
}

// TechnicalAnalyzer scores technical depth by sending the chunk transcript to
// a language model. It only runs in single-video mode; batch chunks skip it.
type TechnicalAnalyzer struct {
	evaluator DepthEvaluator
}

// NewTechnicalAnalyzer constructs the LLM-backed technical depth analyzer.
func NewTechnicalAnalyzer(evaluator DepthEvaluator) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{evaluator: evaluator}
}

// Kind reports the analyzer family.
func (a *TechnicalAnalyzer) Kind() Kind { return KindTechnical }

// Analyze evaluates the transcript's technical depth.
func (a *TechnicalAnalyzer) Analyze(ctx context.Context, in Input) (Metrics, error) {
	if a.evaluator == nil {
		return nil, errors.New("technical analyze: no evaluator configured")
	}
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, errors.New("technical analyze: empty transcript")
	}
	depth, err := a.evaluator.EvaluateTechnicalDepth(ctx, in.Transcript, in.SharedContext)
	if err != nil {
		return nil, err
	}
	domain := strings.TrimSpace(depth.Domain)
	if domain == "" {
		domain = "general"
	}
	return TechnicalMetrics{
		Score:        depth.Score,
		Domain:       domain,
		ConceptCount: depth.ConceptCount,
		Correctness:  depth.Correctness,
		Depth:        depth.Depth,
		Summary:      depth.Summary,
	}, nil
}
