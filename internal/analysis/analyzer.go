package analysis

import "context"

// Input carries the per-chunk artifacts the extraction and transcription
// stages produced. All fields are read-only for analyzers.
type Input struct {
	// AudioPath points at the extracted mono WAV track.
	AudioPath string
	// KeyframePaths lists extracted JPEG frames in capture order.
	KeyframePaths []string
	// KeyframeIntervalSeconds is the capture spacing used for rate estimates.
	KeyframeIntervalSeconds int
	// Transcript is the full transcription text.
	Transcript string
	// TranscriptConfidence is the segment-averaged confidence in [0, 1].
	TranscriptConfidence float64
	// SharedContext is the optional caller-supplied topic description.
	SharedContext string
}

// Analyzer is the uniform fan-out contract. Implementations must be safe
// for sequential reuse within one worker slot but are never shared across
// slots.
type Analyzer interface {
	Kind() Kind
	Analyze(ctx context.Context, in Input) (Metrics, error)
}
