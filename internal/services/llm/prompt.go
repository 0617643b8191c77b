package llm

import (
	"fmt"
	"strings"
)

// transcriptLimit bounds the transcript portion of the prompt so long
// lectures do not blow the context window.
const transcriptLimit = 6000

const technicalDepthSystemPrompt = `You are an expert educational content evaluator analyzing a teaching video transcript.

Provide a JSON response with EXACTLY this structure (no markdown, just pure JSON):
{
  "domain": "computer_science or business or finance or mathematics or science or general",
  "concept_count": <number>,
  "technical_terms": ["term1", "term2", "term3"],
  "concept_correctness_score": <0.0 to 1.0>,
  "depth_score": <0.0 to 1.0>,
  "score": <0 to 100>,
  "analysis_summary": "2-3 sentence evaluation of technical quality, strengths, and areas for improvement"
}

SCORING GUIDELINES:
- domain: Detect the subject area. For programming/OOP topics use "computer_science"
- concept_count: Count DISTINCT concepts that were actually EXPLAINED (not just mentioned)
- technical_terms: Extract 5-15 most important technical terms used
- concept_correctness_score:
  * 1.0 = Perfect explanation with examples, accurate terminology
  * 0.8 = Good explanation with minor gaps
  * 0.6 = Adequate but could be clearer
  * 0.4 = Some confusion or inaccuracies
  * 0.2 = Poor explanation
- depth_score:
  * 1.0 = Very deep dive with theory, practical examples, edge cases
  * 0.7 = Good depth with examples
  * 0.5 = Moderate depth, covers basics
  * 0.3 = Surface level only
  * 0.1 = Barely touches the topic
- score: Overall 0-100 combining all factors (be generous for clear explanations!)
- analysis_summary: Brief evaluation mentioning what was covered well, quality of
  explanations, use of examples, and one area for improvement

IMPORTANT:
- Return ONLY valid JSON, no extra text
- Be fair but accurate
- Real-world examples and analogies should increase scores
- Clear explanations should score higher than just listing terms`

func buildTechnicalDepthUserPrompt(transcript, teachingContext string) string {
	runes := []rune(transcript)
	if len(runes) > transcriptLimit {
		transcript = string(runes[:transcriptLimit])
	}

	var b strings.Builder
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(transcript)
	b.WriteString("\n")

	teachingContext = strings.TrimSpace(teachingContext)
	if teachingContext != "" {
		fmt.Fprintf(&b, `
USER PROVIDED CONTEXT ABOUT THIS VIDEO:
%q

IMPORTANT: The user told you this video is about the topics above. Use this information to:
1. Check if the teacher actually covered these topics
2. Evaluate how well they explained these concepts
3. Look for related technical terms and concepts
4. Judge if examples were provided
5. Rate the overall technical depth based on expectations for this subject
`, teachingContext)
	} else {
		b.WriteString(`
IMPORTANT: No context provided. You must:
1. Auto-detect the domain (computer_science, business, finance, mathematics, science, or general)
2. Identify what technical concepts are being taught
3. Evaluate based on the detected subject matter
`)
	}
	return b.String()
}
