package analytics

import (
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

// Computer derives a judge's performance snapshot from a set of
// evaluation records already fetched from the store.
type Computer struct {
	detector *Detector
	now      func() time.Time
}

func NewComputer() *Computer {
	return &Computer{
		detector: NewDetector(),
		now:      time.Now,
	}
}

// Compute aggregates evaluations into one JudgePerformanceMetrics.
// Returns nil when there is nothing to report; an empty input is not an
// error. submissionsByID feeds the pattern detector and may be nil when
// no record disagrees.
func (c *Computer) Compute(
	judgeID string,
	evaluations []*domain.EvaluationRecord,
	submissionsByID map[string]*domain.Submission,
	periodStart, periodEnd time.Time,
) *domain.JudgePerformanceMetrics {
	if len(evaluations) == 0 {
		return nil
	}

	var (
		reviewed             int
		disagreements        []*domain.EvaluationRecord
		aiPass, aiFail       int
		humanPass, humanFail int
	)

	for _, eval := range evaluations {
		switch eval.Verdict {
		case domain.VerdictPass:
			aiPass++
		case domain.VerdictFail:
			aiFail++
		}

		if !eval.HumanReviewed() {
			continue
		}
		reviewed++

		switch *eval.HumanVerdict {
		case domain.VerdictPass:
			humanPass++
		case domain.VerdictFail:
			humanFail++
		}

		if eval.DisagreementStrict() {
			disagreements = append(disagreements, eval)
		}
	}

	return &domain.JudgePerformanceMetrics{
		JudgeID:            judgeID,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		TotalEvaluations:   len(evaluations),
		HumanReviewedCount: reviewed,
		DisagreementCount:  len(disagreements),
		// Disagreement rate is over every human-reviewed record,
		// decisive or not; the pass rates below are decisive-only.
		DisagreementRate: domain.Rate(len(disagreements), reviewed),
		AIPassRate:       domain.PassRate(aiPass, aiFail),
		HumanPassRate:    domain.PassRate(humanPass, humanFail),
		FailurePatterns:  c.detector.Detect(disagreements, submissionsByID),
		ComputedAt:       c.now(),
	}
}
