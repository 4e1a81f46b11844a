package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submissionWith(id, questionID, answer string) map[string]*domain.Submission {
	return map[string]*domain.Submission{
		id: {
			ID:      id,
			Answers: map[string]domain.SubmissionAnswer{questionID: {Raw: answer}},
		},
	}
}

func findPattern(patterns []domain.FailurePattern, typ domain.PatternType) *domain.FailurePattern {
	for i := range patterns {
		if patterns[i].Type == typ {
			return &patterns[i]
		}
	}
	return nil
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector()
	assert.Empty(t, d.Detect(nil, nil))
}

func TestDetectShortAnswers(t *testing.T) {
	evals := []*domain.EvaluationRecord{
		{ID: "e1", SubmissionID: "s1", QuestionID: "q1"},
	}
	subs := submissionWith("s1", "q1", "too short")

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	short := findPattern(patterns, domain.PatternShortAnswers)
	require.NotNil(t, short)
	assert.Equal(t, 1, short.Count)
	assert.Equal(t, []string{"e1"}, short.Examples)
}

func TestDetectLongAnswerNotShort(t *testing.T) {
	evals := []*domain.EvaluationRecord{
		{ID: "e1", SubmissionID: "s1", QuestionID: "q1"},
	}
	subs := submissionWith("s1", "q1", strings.Repeat("a", 50))

	d := NewDetector()
	patterns := d.Detect(evals, subs)
	assert.Nil(t, findPattern(patterns, domain.PatternShortAnswers))
}

func TestDetectSpellingRequiresNonEmptyAnswer(t *testing.T) {
	evals := []*domain.EvaluationRecord{
		{ID: "e1", SubmissionID: "s1", QuestionID: "q1", Reasoning: "contains a TYPO"},
		{ID: "e2", SubmissionID: "missing", QuestionID: "q1", Reasoning: "spelling mistakes everywhere"},
	}
	subs := submissionWith("s1", "q1", "an answer long enough to avoid the short bucket entirely")

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	spelling := findPattern(patterns, domain.PatternSpellingErrors)
	require.NotNil(t, spelling)
	// e2 resolves to an empty answer and must not qualify.
	assert.Equal(t, 1, spelling.Count)
	assert.Equal(t, []string{"e1"}, spelling.Examples)
}

func TestDetectIncompleteOverride(t *testing.T) {
	human := domain.VerdictPass
	evals := []*domain.EvaluationRecord{
		{
			ID:           "e1",
			SubmissionID: "s1",
			QuestionID:   "q1",
			Verdict:      domain.VerdictFail,
			HumanVerdict: &human,
			Reasoning:    "The answer is Incomplete and stops midway",
		},
		{
			// Human failed it too: not an override.
			ID:           "e2",
			SubmissionID: "s1",
			QuestionID:   "q1",
			Verdict:      domain.VerdictFail,
			HumanVerdict: verdictPtr(domain.VerdictFail),
			Reasoning:    "incomplete",
		},
	}
	subs := submissionWith("s1", "q1", strings.Repeat("x", 60))

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	incomplete := findPattern(patterns, domain.PatternIncompleteResponses)
	require.NotNil(t, incomplete)
	assert.Equal(t, 1, incomplete.Count)
	assert.Equal(t, []string{"e1"}, incomplete.Examples)
}

func TestDetectRecordCanLandInMultipleBuckets(t *testing.T) {
	human := domain.VerdictPass
	evals := []*domain.EvaluationRecord{
		{
			ID:           "e1",
			SubmissionID: "s1",
			QuestionID:   "q1",
			Verdict:      domain.VerdictFail,
			HumanVerdict: &human,
			Reasoning:    "incomplete answer with a spelling error",
		},
	}
	subs := submissionWith("s1", "q1", "short")

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	assert.NotNil(t, findPattern(patterns, domain.PatternShortAnswers))
	assert.NotNil(t, findPattern(patterns, domain.PatternSpellingErrors))
	assert.NotNil(t, findPattern(patterns, domain.PatternIncompleteResponses))
}

func TestDetectExamplesCappedAtFiveInOrder(t *testing.T) {
	var evals []*domain.EvaluationRecord
	for i := 0; i < 8; i++ {
		evals = append(evals, &domain.EvaluationRecord{
			ID:           fmt.Sprintf("e%d", i),
			SubmissionID: "s1",
			QuestionID:   "q1",
		})
	}
	subs := submissionWith("s1", "q1", "tiny")

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	short := findPattern(patterns, domain.PatternShortAnswers)
	require.NotNil(t, short)
	assert.Equal(t, 8, short.Count)
	assert.Equal(t, []string{"e0", "e1", "e2", "e3", "e4"}, short.Examples)
}

// Sub-pattern rates divide raw passes by bucket size, without the
// decisive-verdict exclusion the top-level metrics use.
func TestDetectSubPatternRatesAreRaw(t *testing.T) {
	evals := []*domain.EvaluationRecord{
		{ID: "e1", SubmissionID: "s1", QuestionID: "q1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictFail)},
		{ID: "e2", SubmissionID: "s1", QuestionID: "q1", Verdict: domain.VerdictInconclusive, HumanVerdict: verdictPtr(domain.VerdictPass)},
		{ID: "e3", SubmissionID: "s1", QuestionID: "q1", Verdict: domain.VerdictFail},
	}
	subs := submissionWith("s1", "q1", "brief")

	d := NewDetector()
	patterns := d.Detect(evals, subs)

	short := findPattern(patterns, domain.PatternShortAnswers)
	require.NotNil(t, short)
	assert.Equal(t, 3, short.Count)
	// Inconclusive counts in the denominator here.
	assert.InDelta(t, 1.0/3.0, short.AIPassRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, short.HumanPassRate, 1e-9)
}
