package analysis

import (
	"context"
	"errors"
	"testing"

	"lectern/internal/services/llm"
)

type fakeEvaluator struct {
	depth llm.TechnicalDepth
	err   error

	gotTranscript string
	gotContext    string
}

func (f *fakeEvaluator) EvaluateTechnicalDepth(_ context.Context, transcript, teachingContext string) (llm.TechnicalDepth, error) {
	f.gotTranscript = transcript
	f.gotContext = teachingContext
	return f.depth, f.err
}

func TestTechnicalAnalyzerMapsEvaluation(t *testing.T) {
	evaluator := &fakeEvaluator{depth: llm.TechnicalDepth{
		Domain:       "computer_science",
		ConceptCount: 12,
		Correctness:  0.9,
		Depth:        0.7,
		Score:        78,
		Summary:      "solid treatment of graph traversal",
	}}
	analyzer := NewTechnicalAnalyzer(evaluator)

	metrics, err := analyzer.Analyze(context.Background(), Input{
		Transcript:    "we traverse the graph breadth first",
		SharedContext: "algorithms course, week four",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	technical, ok := metrics.(TechnicalMetrics)
	if !ok {
		t.Fatalf("expected TechnicalMetrics, got %T", metrics)
	}
	if technical.Score != 78 || technical.Domain != "computer_science" || technical.ConceptCount != 12 {
		t.Fatalf("unexpected mapping: %+v", technical)
	}
	if evaluator.gotContext != "algorithms course, week four" {
		t.Fatalf("teaching context not forwarded: %q", evaluator.gotContext)
	}
}

func TestTechnicalAnalyzerDefaultsEmptyDomain(t *testing.T) {
	evaluator := &fakeEvaluator{depth: llm.TechnicalDepth{Score: 40}}
	metrics, err := NewTechnicalAnalyzer(evaluator).Analyze(context.Background(), Input{Transcript: "some lecture"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got := metrics.(TechnicalMetrics).Domain; got != "general" {
		t.Fatalf("domain = %q, want general", got)
	}
}

func TestTechnicalAnalyzerErrors(t *testing.T) {
	analyzer := NewTechnicalAnalyzer(&fakeEvaluator{})
	if _, err := analyzer.Analyze(context.Background(), Input{Transcript: "   "}); err == nil {
		t.Fatal("expected error for empty transcript")
	}

	failing := NewTechnicalAnalyzer(&fakeEvaluator{err: errors.New("upstream unavailable")})
	if _, err := failing.Analyze(context.Background(), Input{Transcript: "real content"}); err == nil {
		t.Fatal("expected evaluator error to propagate")
	}

	if _, err := NewTechnicalAnalyzer(nil).Analyze(context.Background(), Input{Transcript: "real content"}); err == nil {
		t.Fatal("expected error when no evaluator is configured")
	}
}
