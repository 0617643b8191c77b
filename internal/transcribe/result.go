package transcribe

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Result contains the outcome of a transcription.
type Result struct {
	// Text is the full transcript with surrounding whitespace trimmed.
	Text string
	// Confidence is the segment-averaged speech confidence in [0, 1],
	// rounded to three decimals. Zero when whisper produced no segments.
	Confidence float64
	// Language is the language whisper detected or was told to use.
	Language string
	// SegmentCount is the number of transcribed segments.
	SegmentCount int
}

// Segment represents a transcribed segment from whisper JSON output.
type Segment struct {
	ID           int     `json:"id"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

// whisperPayload is the JSON structure whisper writes.
type whisperPayload struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// LoadResult parses a whisper JSON output file. Confidence is derived from
// the per-segment no-speech probability: 1 minus the segment average.
func LoadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse whisper json: %w", err)
	}

	result := Result{
		Text:         strings.TrimSpace(payload.Text),
		Language:     payload.Language,
		SegmentCount: len(payload.Segments),
	}
	if len(payload.Segments) > 0 {
		total := 0.0
		for _, seg := range payload.Segments {
			total += seg.NoSpeechProb
		}
		confidence := 1 - total/float64(len(payload.Segments))
		result.Confidence = math.Round(confidence*1000) / 1000
	}
	return result, nil
}
