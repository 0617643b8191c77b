// Package scoring turns analyzer metrics into category scores and a weighted
// overall score. Category formulas are fixed; only the weight tables that
// combine them into the overall score come from configuration.
package scoring

import (
	"fmt"
	"math"

	"lectern/internal/analysis"
	"lectern/internal/config"
)

// Mode selects the weight table and whether technical depth participates.
type Mode string

const (
	// ModeBatch scores without the technical-depth category.
	ModeBatch Mode = "batch"
	// ModeFull scores all five categories.
	ModeFull Mode = "full"
)

// Score holds the per-category results on a 0-100 scale. TechnicalDepth is
// nil in batch mode.
type Score struct {
	Communication  float64  `json:"communication"`
	Engagement     float64  `json:"engagement"`
	TechnicalDepth *float64 `json:"technical_depth,omitempty"`
	Clarity        float64  `json:"clarity"`
	Interaction    float64  `json:"interaction"`
	Overall        float64  `json:"overall"`
}

// Engine computes scores using the configured weight tables.
type Engine struct {
	weights config.Scoring
}

// NewEngine constructs a scoring engine from the configured weight tables.
func NewEngine(weights config.Scoring) *Engine {
	return &Engine{weights: weights}
}

// Score computes every category for the bundle and combines them with the
// mode's weight table. All categories are rounded to two decimals before the
// overall weighted sum is taken, so stored category scores recombine exactly.
func (e *Engine) Score(mode Mode, bundle *analysis.Bundle) (*Score, error) {
	var weights config.Weights
	switch mode {
	case ModeBatch:
		weights = e.weights.Batch
	case ModeFull:
		weights = e.weights.Full
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}

	score := &Score{
		Communication: communicationScore(bundle.Audio),
		Engagement:    engagementScore(bundle.Engagement),
		Clarity:       clarityScore(bundle.Audio, bundle.Visual),
		Interaction:   interactionScore(bundle.Visual),
	}

	technical := 0.0
	if mode == ModeFull {
		metrics := analysis.DefaultTechnicalMetrics()
		if bundle.Technical != nil {
			metrics = *bundle.Technical
		}
		technical = technicalScore(metrics)
		score.TechnicalDepth = &technical
	}

	score.Overall = round2(score.Communication*weights.Communication +
		score.Engagement*weights.Engagement +
		technical*weights.Technical +
		score.Clarity*weights.Clarity +
		score.Interaction*weights.Interaction)
	return score, nil
}

// communicationScore rates speech delivery: pace near 130-170 words per
// minute, moderate pausing, little stuttering, and expressive volume and
// pitch variation.
func communicationScore(audio analysis.AudioMetrics) float64 {
	rateScore := 0.4
	switch {
	case audio.SpeakingRate >= 130 && audio.SpeakingRate <= 170:
		rateScore = 1.0
	case audio.SpeakingRate >= 100 && audio.SpeakingRate < 130,
		audio.SpeakingRate > 170 && audio.SpeakingRate <= 200:
		rateScore = 0.7
	}

	pauseScore := 0.6
	if audio.PauseCount >= 5 && audio.PauseCount <= 20 {
		pauseScore = 1.0
	}

	stutterScore := math.Max(0, 1.0-float64(audio.StutterCount)*0.1)
	volumeScore := math.Min(1.0, audio.VolumeStd*10)
	pitchScore := math.Min(1.0, audio.PitchStd/50)

	return round2((rateScore*0.3 +
		pauseScore*0.2 +
		stutterScore*0.2 +
		volumeScore*0.15 +
		pitchScore*0.15) * 100)
}

// engagementScore rates audience-directed language, saturating each signal
// at a per-signal ceiling.
func engagementScore(engagement analysis.EngagementMetrics) float64 {
	qnaScore := math.Min(1.0, float64(engagement.QnAPairs)/10)
	questionScore := math.Min(1.0, float64(engagement.QuestionCount)/15)
	interactionScore := math.Min(1.0, float64(engagement.InteractionMoments)/20)
	rhetoricalScore := math.Min(1.0, float64(engagement.RhetoricalCount)/5)
	directScore := math.Min(1.0, float64(engagement.DirectAddressCount)/30)

	return round2((qnaScore*0.25 +
		questionScore*0.20 +
		interactionScore*0.25 +
		rhetoricalScore*0.15 +
		directScore*0.15) * 100)
}

// technicalScore uses the evaluator's own 0-100 judgment when it supplied a
// positive one. A zero or missing score falls back to a local formula over
// the component signals, with a stricter concept denominator for the exact
// sciences.
func technicalScore(technical analysis.TechnicalMetrics) float64 {
	if technical.Score > 0 {
		return round2(technical.Score)
	}

	denominator := 10.0
	switch technical.Domain {
	case "computer_science", "mathematics", "science":
		denominator = 20.0
	}
	conceptScore := math.Min(1.0, float64(technical.ConceptCount)/denominator)

	return round2((conceptScore*0.3 +
		technical.Correctness*0.4 +
		technical.Depth*0.3) * 100)
}

// clarityScore rates how easy the recording is to follow: frame quality,
// audible and energetic volume, pitch variation, and camera-facing time.
func clarityScore(audio analysis.AudioMetrics, visual analysis.VisualMetrics) float64 {
	audioQuality := math.Min(1.0, audio.VolumeMean*100)
	energyScore := math.Min(1.0, audio.VolumeMean*50)
	pitchVariation := math.Min(1.0, audio.PitchStd/50)
	eyeContactScore := visual.EyeContactPercent / 100

	return round2((visual.QualityScore*0.25 +
		audioQuality*0.25 +
		energyScore*0.2 +
		pitchVariation*0.15 +
		eyeContactScore*0.15) * 100)
}

// interactionScore rates physical presence: camera-facing time, a moderate
// gesture rate of 3-8 per minute, and pose stability.
func interactionScore(visual analysis.VisualMetrics) float64 {
	eyeContactScore := visual.EyeContactPercent / 100

	gestureScore := 0.6
	if visual.GestureFrequency >= 3 && visual.GestureFrequency <= 8 {
		gestureScore = 1.0
	}

	return round2((eyeContactScore*0.5 +
		gestureScore*0.3 +
		visual.PoseStability*0.2) * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
