package analytics

import (
	"fmt"
	"strings"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

const (
	shortAnswerMaxLen  = 50
	maxPatternExamples = 5
)

// Detector classifies disagreeing evaluations into named failure
// patterns using heuristics over the answer text and the AI's
// reasoning. A record may land in any number of buckets.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

type patternBucket struct {
	members  []*domain.EvaluationRecord
	examples []string
}

func (b *patternBucket) add(eval *domain.EvaluationRecord) {
	b.members = append(b.members, eval)
	if len(b.examples) < maxPatternExamples {
		b.examples = append(b.examples, eval.ID)
	}
}

// Detect runs every pattern predicate over the disagreeing subset.
// Patterns with at least one member are emitted; the UI applies its own
// significance bar on top of these permissive counts.
func (d *Detector) Detect(
	disagreements []*domain.EvaluationRecord,
	submissionsByID map[string]*domain.Submission,
) []domain.FailurePattern {
	var short, spelling, incomplete patternBucket

	for _, eval := range disagreements {
		answer := submissionsByID[eval.SubmissionID].AnswerText(eval.QuestionID)

		if isShortAnswer(answer) {
			short.add(eval)
		}
		if isSpellingFlagged(answer, eval.Reasoning) {
			spelling.add(eval)
		}
		if isIncompleteOverride(eval) {
			incomplete.add(eval)
		}
	}

	var patterns []domain.FailurePattern
	if len(short.members) > 0 {
		patterns = append(patterns, buildPattern(domain.PatternShortAnswers,
			"AI and human disagree on answers shorter than 50 characters", &short))
	}
	if len(spelling.members) > 0 {
		patterns = append(patterns, buildPattern(domain.PatternSpellingErrors,
			"AI reasoning flags spelling or typo issues on disagreeing answers", &spelling))
	}
	if len(incomplete.members) > 0 {
		patterns = append(patterns, buildPattern(domain.PatternIncompleteResponses,
			"AI failed answers as incomplete that humans passed", &incomplete))
	}

	return patterns
}

// isShortAnswer flags answers under the length threshold.
func isShortAnswer(answer string) bool {
	return len(answer) < shortAnswerMaxLen
}

// isSpellingFlagged requires a non-empty answer whose AI reasoning
// mentions spelling trouble.
func isSpellingFlagged(answer, reasoning string) bool {
	if answer == "" {
		return false
	}
	lower := strings.ToLower(reasoning)
	return strings.Contains(lower, "spelling") ||
		strings.Contains(lower, "typo") ||
		strings.Contains(lower, "error")
}

// isIncompleteOverride matches the AI failing an answer as incomplete
// that the human passed.
func isIncompleteOverride(eval *domain.EvaluationRecord) bool {
	if eval.Verdict != domain.VerdictFail {
		return false
	}
	if eval.HumanVerdict == nil || *eval.HumanVerdict != domain.VerdictPass {
		return false
	}
	return strings.Contains(strings.ToLower(eval.Reasoning), "incomplete")
}

func buildPattern(typ domain.PatternType, description string, bucket *patternBucket) domain.FailurePattern {
	var aiPasses, humanPasses int
	for _, eval := range bucket.members {
		if eval.Verdict == domain.VerdictPass {
			aiPasses++
		}
		if eval.HumanVerdict != nil && *eval.HumanVerdict == domain.VerdictPass {
			humanPasses++
		}
	}

	size := len(bucket.members)
	return domain.FailurePattern{
		Type:        typ,
		Description: fmt.Sprintf("%s (%d occurrences)", description, size),
		Count:       size,
		Examples:    bucket.examples,
		// Sub-pattern rates are raw passes over bucket size, without
		// the decisive-verdict exclusion used at the top level.
		AIPassRate:    domain.Rate(aiPasses, size),
		HumanPassRate: domain.Rate(humanPasses, size),
	}
}
