package scoring

import (
	"math"
	"testing"

	"lectern/internal/analysis"
	"lectern/internal/config"
)

func defaultBundle() *analysis.Bundle {
	return &analysis.Bundle{
		Audio:      analysis.DefaultAudioMetrics(),
		Engagement: analysis.DefaultEngagementMetrics(),
		Visual:     analysis.DefaultVisualMetrics(),
	}
}

func TestScoreBatchModeWithNeutralMetrics(t *testing.T) {
	engine := NewEngine(config.Default().Scoring)
	score, err := engine.Score(ModeBatch, defaultBundle())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	// Neutral audio: rate 150 -> 1.0, 10 pauses -> 1.0, no stutters -> 1.0,
	// volume std 0.01 -> 0.1, pitch std 30 -> 0.6.
	if score.Communication != 80.5 {
		t.Errorf("communication = %v, want 80.5", score.Communication)
	}
	if score.Engagement != 0 {
		t.Errorf("engagement = %v, want 0 for zero counts", score.Engagement)
	}
	if score.Clarity != 74 {
		t.Errorf("clarity = %v, want 74", score.Clarity)
	}
	if score.Interaction != 69 {
		t.Errorf("interaction = %v, want 69", score.Interaction)
	}
	if score.TechnicalDepth != nil {
		t.Errorf("technical depth should be nil in batch mode, got %v", *score.TechnicalDepth)
	}
	// 80.5*0.25 + 0*0.25 + 74*0.30 + 69*0.20 = 56.125, which sits on the
	// rounding boundary; accept either side of it.
	if math.Abs(score.Overall-56.125) > 0.005 {
		t.Errorf("overall = %v, want about 56.13", score.Overall)
	}
}

func TestScoreFullModeIncludesTechnicalDepth(t *testing.T) {
	engine := NewEngine(config.Default().Scoring)
	bundle := defaultBundle()
	bundle.Technical = &analysis.TechnicalMetrics{Score: 85, Domain: "computer_science"}

	score, err := engine.Score(ModeFull, bundle)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.TechnicalDepth == nil {
		t.Fatal("technical depth missing in full mode")
	}
	// A positive evaluator score is used directly.
	if *score.TechnicalDepth != 85 {
		t.Errorf("technical depth = %v, want 85", *score.TechnicalDepth)
	}
	// 80.5*0.20 + 0*0.20 + 85*0.30 + 74*0.20 + 69*0.10
	if score.Overall != 63.3 {
		t.Errorf("overall = %v, want 63.3", score.Overall)
	}
}

func TestScoreFullModeWithoutTechnicalMetricsUsesFallback(t *testing.T) {
	engine := NewEngine(config.Default().Scoring)
	score, err := engine.Score(ModeFull, defaultBundle())
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.TechnicalDepth == nil || *score.TechnicalDepth != 0 {
		t.Fatalf("technical depth = %v, want fallback 0 for empty evaluation", score.TechnicalDepth)
	}
}

func TestScoreUnknownMode(t *testing.T) {
	engine := NewEngine(config.Default().Scoring)
	if _, err := engine.Score(Mode("partial"), defaultBundle()); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestCommunicationScoreRateBands(t *testing.T) {
	cases := []struct {
		name string
		rate float64
		want float64 // rate component only
	}{
		{"optimal low edge", 130, 1.0},
		{"optimal high edge", 170, 1.0},
		{"acceptable slow", 110, 0.7},
		{"acceptable fast", 200, 0.7},
		{"too slow", 90, 0.4},
		{"too fast", 230, 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			audio := analysis.AudioMetrics{SpeakingRate: tc.rate}
			// Only the rate band contributes: no pauses (0.6), full stutter
			// credit (1.0), zero volume and pitch variation.
			want := round2((tc.want*0.3 + 0.6*0.2 + 1.0*0.2) * 100)
			if got := communicationScore(audio); got != want {
				t.Fatalf("communicationScore(rate=%v) = %v, want %v", tc.rate, got, want)
			}
		})
	}
}

func TestEngagementScoreSaturates(t *testing.T) {
	engagement := analysis.EngagementMetrics{
		QnAPairs:           50,
		QuestionCount:      50,
		InteractionMoments: 50,
		RhetoricalCount:    50,
		DirectAddressCount: 50,
	}
	if got := engagementScore(engagement); got != 100 {
		t.Fatalf("engagementScore = %v, want 100 at saturation", got)
	}
}

func TestTechnicalScoreFallbackDenominators(t *testing.T) {
	base := analysis.TechnicalMetrics{
		ConceptCount: 10,
		Correctness:  0.8,
		Depth:        0.6,
	}

	exact := base
	exact.Domain = "computer_science"
	// concept 10/20 = 0.5: (0.5*0.3 + 0.8*0.4 + 0.6*0.3) * 100
	if got := technicalScore(exact); got != 65 {
		t.Fatalf("technicalScore(cs) = %v, want 65", got)
	}

	general := base
	general.Domain = "history"
	// concept 10/10 = 1.0: (1.0*0.3 + 0.8*0.4 + 0.6*0.3) * 100
	if got := technicalScore(general); got != 80 {
		t.Fatalf("technicalScore(history) = %v, want 80", got)
	}
}

func TestTechnicalScoreIgnoresZeroEvaluatorScore(t *testing.T) {
	metrics := analysis.TechnicalMetrics{
		Score:        0,
		Domain:       "general",
		ConceptCount: 5,
		Correctness:  0.5,
		Depth:        0.5,
	}
	// Zero is treated as "no judgment"; the fallback formula applies.
	want := round2((0.5*0.3 + 0.5*0.4 + 0.5*0.3) * 100)
	if got := technicalScore(metrics); got != want {
		t.Fatalf("technicalScore = %v, want fallback %v", got, want)
	}
}

func TestInteractionScoreGestureBand(t *testing.T) {
	visual := analysis.VisualMetrics{EyeContactPercent: 100, GestureFrequency: 5, PoseStability: 1}
	if got := interactionScore(visual); got != 100 {
		t.Fatalf("interactionScore = %v, want 100", got)
	}
	visual.GestureFrequency = 15
	// Excessive gesturing drops the gesture component to 0.6.
	if got := interactionScore(visual); got != 88 {
		t.Fatalf("interactionScore = %v, want 88", got)
	}
}

func TestDefaultWeightTablesSumToOne(t *testing.T) {
	scoring := config.Default().Scoring
	for name, weights := range map[string]config.Weights{"batch": scoring.Batch, "full": scoring.Full} {
		if diff := math.Abs(weights.Sum() - 1); diff > 1e-9 {
			t.Errorf("%s weights sum to %v, want 1", name, weights.Sum())
		}
	}
	if scoring.Batch.Technical != 0 {
		t.Errorf("batch technical weight = %v, want 0", scoring.Batch.Technical)
	}
}
