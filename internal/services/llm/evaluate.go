package llm

import (
	"context"
	"errors"
	"strings"
)

// TechnicalDepth captures the JSON payload returned by the LLM for
// technical depth evaluation of a lecture transcript.
type TechnicalDepth struct {
	Domain         string   `json:"domain"`
	ConceptCount   int      `json:"concept_count"`
	TechnicalTerms []string `json:"technical_terms"`
	Correctness    float64  `json:"concept_correctness_score"`
	Depth          float64  `json:"depth_score"`
	Score          float64  `json:"score"`
	Summary        string   `json:"analysis_summary"`
	Raw            string   `json:"-"`
}

const maxTechnicalTerms = 15

// EvaluateTechnicalDepth asks the model to judge the technical depth of a
// transcript. teachingContext is optional background supplied by the caller
// (e.g. "Data Structures lecture series"); when empty the model auto-detects
// the domain. Decode failures are reported as *ParseError so callers can
// substitute a neutral result instead of discarding the chunk.
func (c *Client) EvaluateTechnicalDepth(ctx context.Context, transcript, teachingContext string) (TechnicalDepth, error) {
	var empty TechnicalDepth
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return empty, errors.New("llm evaluate: transcript required")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return empty, errors.New("llm evaluate: api key required")
	}

	content, err := c.CompleteJSON(ctx, technicalDepthSystemPrompt, buildTechnicalDepthUserPrompt(transcript, teachingContext))
	if err != nil {
		return empty, err
	}

	var parsed TechnicalDepth
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return empty, &ParseError{Err: err}
	}
	parsed.Raw = content
	normalizeTechnicalDepth(&parsed)
	return parsed, nil
}

func normalizeTechnicalDepth(td *TechnicalDepth) {
	td.Domain = strings.ToLower(strings.TrimSpace(td.Domain))
	if td.Domain == "" {
		td.Domain = "general"
	}
	if td.ConceptCount < 0 {
		td.ConceptCount = 0
	}
	td.Correctness = clampUnit(td.Correctness)
	td.Depth = clampUnit(td.Depth)
	if td.Score < 0 {
		td.Score = 0
	}
	if td.Score > 100 {
		td.Score = 100
	}
	if len(td.TechnicalTerms) > maxTechnicalTerms {
		td.TechnicalTerms = td.TechnicalTerms[:maxTechnicalTerms]
	}
	td.Summary = strings.TrimSpace(td.Summary)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
