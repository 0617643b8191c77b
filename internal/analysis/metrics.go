package analysis

import "fmt"

// Kind identifies one of the fan-out analyzer families.
type Kind string

const (
	KindAudio      Kind = "audio"
	KindEngagement Kind = "engagement"
	KindVisual     Kind = "visual"
	KindTechnical  Kind = "technical"
)

// AudioMetrics capture speech delivery features extracted from the audio track.
type AudioMetrics struct {
	// SpeakingRate is the transcript word rate in words per minute.
	SpeakingRate float64 `json:"speaking_rate"`
	// PauseCount is the number of silences longer than half a second.
	PauseCount int `json:"pause_count"`
	// AvgPauseDuration is the mean counted-pause length in seconds.
	AvgPauseDuration float64 `json:"avg_pause_duration"`
	// StutterCount is the number of immediately repeated words.
	StutterCount int     `json:"stuttering_count"`
	VolumeMean   float64 `json:"volume_mean"`
	VolumeStd    float64 `json:"volume_std"`
	PitchMean    float64 `json:"pitch_mean"`
	PitchStd     float64 `json:"pitch_std"`
}

func (AudioMetrics) Kind() Kind { return KindAudio }

// EngagementMetrics count audience-directed language in the transcript.
type EngagementMetrics struct {
	// QnAPairs counts questions followed by a substantive explanation.
	QnAPairs           int `json:"qna_pairs"`
	QuestionCount      int `json:"question_count"`
	InteractionMoments int `json:"interaction_moments"`
	RhetoricalCount    int `json:"rhetorical_questions"`
	DirectAddressCount int `json:"direct_address_count"`
}

func (EngagementMetrics) Kind() Kind { return KindEngagement }

// VisualMetrics summarize presenter behavior estimated from keyframes.
type VisualMetrics struct {
	// EyeContactPercent is the share of frames judged camera-facing, 0-100.
	EyeContactPercent float64 `json:"eye_contact_percentage"`
	// GestureFrequency is estimated gestures per minute.
	GestureFrequency float64 `json:"gesture_frequency"`
	// PoseStability is 1 minus normalized inter-frame movement, in [0, 1].
	PoseStability float64 `json:"pose_stability"`
	// QualityScore is normalized frame sharpness/exposure quality, in [0, 1].
	QualityScore float64 `json:"video_quality_score"`
}

func (VisualMetrics) Kind() Kind { return KindVisual }

// TechnicalMetrics hold the LLM technical-depth evaluation of a transcript.
type TechnicalMetrics struct {
	// Score is the evaluator's own 0-100 judgment. Zero forces the scoring
	// engine onto its local fallback formula.
	Score        float64 `json:"score"`
	Domain       string  `json:"domain"`
	ConceptCount int     `json:"concept_count"`
	Correctness  float64 `json:"concept_correctness_score"`
	Depth        float64 `json:"depth_score"`
	Summary      string  `json:"analysis_summary,omitempty"`
}

func (TechnicalMetrics) Kind() Kind { return KindTechnical }

// Metrics is implemented by every analyzer output record.
type Metrics interface {
	Kind() Kind
}

// Bundle aggregates everything one chunk's stages produced. Metrics for a
// failed analyzer hold that analyzer's default values; a chunk that failed
// before the fan-out keeps the all-zero Bundle.
type Bundle struct {
	Transcript           string            `json:"transcript"`
	TranscriptConfidence float64           `json:"transcript_confidence"`
	Audio                AudioMetrics      `json:"audio_metrics"`
	Engagement           EngagementMetrics `json:"engagement_data"`
	Visual               VisualMetrics     `json:"visual_data"`
	Technical            *TechnicalMetrics `json:"technical_data,omitempty"`
}

// Set stores an analyzer result in its Bundle slot.
func (b *Bundle) Set(m Metrics) error {
	switch v := m.(type) {
	case AudioMetrics:
		b.Audio = v
	case EngagementMetrics:
		b.Engagement = v
	case VisualMetrics:
		b.Visual = v
	case TechnicalMetrics:
		b.Technical = &v
	default:
		return fmt.Errorf("unknown metrics type %T", m)
	}
	return nil
}

// DefaultAudioMetrics returns the neutral audio values substituted when the
// audio analyzer fails.
func DefaultAudioMetrics() AudioMetrics {
	return AudioMetrics{
		SpeakingRate:     150,
		PauseCount:       10,
		AvgPauseDuration: 1.0,
		StutterCount:     0,
		VolumeMean:       0.05,
		VolumeStd:        0.01,
		PitchMean:        200,
		PitchStd:         30,
	}
}

// DefaultEngagementMetrics returns the neutral engagement values (all zero).
func DefaultEngagementMetrics() EngagementMetrics {
	return EngagementMetrics{}
}

// DefaultVisualMetrics returns the neutral visual values substituted when
// the visual analyzer fails.
func DefaultVisualMetrics() VisualMetrics {
	return VisualMetrics{
		EyeContactPercent: 50,
		GestureFrequency:  5,
		PoseStability:     0.7,
		QualityScore:      0.5,
	}
}

// DefaultTechnicalMetrics returns the degraded technical evaluation. The
// zero Score deliberately routes scoring through the fallback formula.
func DefaultTechnicalMetrics() TechnicalMetrics {
	return TechnicalMetrics{Domain: "general"}
}

// DefaultMetrics returns the documented default value for a kind. Both the
// per-analyzer fallback path and tests reference this single source.
func DefaultMetrics(kind Kind) Metrics {
	switch kind {
	case KindAudio:
		return DefaultAudioMetrics()
	case KindEngagement:
		return DefaultEngagementMetrics()
	case KindVisual:
		return DefaultVisualMetrics()
	case KindTechnical:
		return DefaultTechnicalMetrics()
	}
	return nil
}
