package analysis

import (
	"context"
	"testing"
)

func TestEngagementAnalyzerCounts(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       EngagementMetrics
	}{
		{
			name:       "empty transcript",
			transcript: "",
			want:       EngagementMetrics{},
		},
		{
			name:       "plain statement",
			transcript: "The quick brown fox jumped over the lazy dog.",
			want:       EngagementMetrics{},
		},
		{
			name:       "question with answer",
			transcript: "What is recursion? It calls itself. The function reduces the problem until a base case stops it.",
			// "?" once; the sentence after the question fragment is long
			// enough to pair.
			want: EngagementMetrics{
				QnAPairs:      1,
				QuestionCount: 1,
			},
		},
		{
			name:       "direct address and interaction",
			transcript: "Remember, we solve this together. Think about the base case before anything else.",
			// interaction: "remember" and "think about"; direct address: "we".
			want: EngagementMetrics{
				InteractionMoments: 2,
				DirectAddressCount: 1,
			},
		},
		{
			name:       "rhetorical question",
			transcript: "Have you ever wondered why sorting matters? Sorting drives nearly every database lookup we perform. Every index relies on sorted order underneath.",
			// "have you" matches the question-phrase pattern and "?" adds
			// one more; "have you ever" is rhetorical; direct address: you,
			// we.
			want: EngagementMetrics{
				QnAPairs:           1,
				QuestionCount:      2,
				RhetoricalCount:    1,
				DirectAddressCount: 2,
			},
		},
	}

	analyzer := NewEngagementAnalyzer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metrics, err := analyzer.Analyze(context.Background(), Input{Transcript: tc.transcript})
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			got, ok := metrics.(EngagementMetrics)
			if !ok {
				t.Fatalf("expected EngagementMetrics, got %T", metrics)
			}
			if got != tc.want {
				t.Fatalf("metrics = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCountQnAPairsRequiresSubstantiveAnswer(t *testing.T) {
	// The answer sentence has five or fewer words, so no pair is counted.
	if got := countQnAPairs("Why does this work? It just does."); got != 0 {
		t.Fatalf("pairs = %d, want 0 for a short answer", got)
	}
	if got := countQnAPairs("Why does this work? Short answer here. The invariant holds on every single loop iteration."); got != 1 {
		t.Fatalf("pairs = %d, want 1", got)
	}
}
