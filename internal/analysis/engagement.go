package analysis

import (
	"context"
	"regexp"
	"strings"

	"lectern/internal/textutil"
)

// Lexical patterns indicating audience engagement. Applied against the
// lowercased transcript.
var (
	questionPhrasePattern = regexp.MustCompile(
		`\b(can you|could you|would you|do you|did you|will you|have you)\b`)
	tagQuestionPattern = regexp.MustCompile(
		`\b(isn't it|doesn't it|aren't they|right)\b\?`)

	interactivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(let's|let us)\b`),
		regexp.MustCompile(`\b(you can|you should|you might|you could|try to|try this)\b`),
		regexp.MustCompile(`\b(think about|consider|imagine|suppose|assume)\b`),
		regexp.MustCompile(`\b(understand|see how|notice|observe|look at)\b`),
		regexp.MustCompile(`\b(example|for instance|such as|like this)\b`),
		regexp.MustCompile(`\b(now|next|first|second|finally|remember)\b`),
		regexp.MustCompile(`\b(important|key point|note that|keep in mind)\b`),
	}

	rhetoricalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bdo you know\b`),
		regexp.MustCompile(`\bhave you ever\b`),
		regexp.MustCompile(`\bcan you imagine\b`),
	}

	directAddressWords = map[string]struct{}{
		"you": {}, "your": {}, "you're": {}, "you'll": {},
		"we": {}, "our": {}, "us": {},
	}
)

// minAnswerWords is the smallest follow-up sentence treated as an answer
// when pairing questions with explanations.
const minAnswerWords = 5

// EngagementAnalyzer counts engagement signals in the transcript: questions,
// question-and-answer pairs, interactive phrasing, rhetorical questions, and
// direct audience address.
type EngagementAnalyzer struct{}

// NewEngagementAnalyzer constructs the lexical engagement analyzer.
func NewEngagementAnalyzer() *EngagementAnalyzer {
	return &EngagementAnalyzer{}
}

// Kind reports the analyzer family.
func (a *EngagementAnalyzer) Kind() Kind { return KindEngagement }

// Analyze computes EngagementMetrics from the input transcript.
func (a *EngagementAnalyzer) Analyze(ctx context.Context, in Input) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := strings.ToLower(in.Transcript)

	questions := strings.Count(lower, "?")
	questions += len(questionPhrasePattern.FindAllString(lower, -1))
	questions += len(tagQuestionPattern.FindAllString(lower, -1))

	rhetorical := 0
	for _, pattern := range rhetoricalPatterns {
		rhetorical += len(pattern.FindAllString(lower, -1))
	}

	interaction := 0
	for _, pattern := range interactivePatterns {
		interaction += len(pattern.FindAllString(lower, -1))
	}

	directAddress := 0
	for _, word := range textutil.Words(lower) {
		if _, ok := directAddressWords[word]; ok {
			directAddress++
		}
	}

	return EngagementMetrics{
		QnAPairs:           countQnAPairs(in.Transcript),
		QuestionCount:      questions,
		InteractionMoments: interaction,
		RhetoricalCount:    rhetorical,
		DirectAddressCount: directAddress,
	}, nil
}

// countQnAPairs counts questions that are followed by a sentence long
// enough to read as an explanation.
func countQnAPairs(transcript string) int {
	fragments := strings.Split(transcript, ".")
	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	pairs := 0
	for i := 0; i+1 < len(sentences); i++ {
		if !strings.Contains(sentences[i], "?") {
			continue
		}
		if textutil.WordCount(sentences[i+1]) > minAnswerWords {
			pairs++
		}
	}
	return pairs
}
