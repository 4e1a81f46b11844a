package analytics

import (
	"sort"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

// FleetAggregator computes the per-judge summary row for every active
// judge in one pass. No caching and no pattern detection; this is the
// lighter overview path.
type FleetAggregator struct{}

func NewFleetAggregator() *FleetAggregator {
	return &FleetAggregator{}
}

// Aggregate returns one row per judge, sorted descending by
// disagreement rate. Judges with zero evaluations appear with zero
// rates rather than being omitted. suggestionCounts is the externally
// supplied pending-suggestion tally; missing judges default to 0.
//
// Disagreement counting here deliberately uses the equality fallback
// rule rather than the stored flag the per-judge metrics prefer; the
// two paths have always diverged and are kept distinct until product
// settles which rule the fleet view should use.
func (a *FleetAggregator) Aggregate(
	judges []*domain.Judge,
	evaluations []*domain.EvaluationRecord,
	suggestionCounts map[string]int,
) []domain.JudgeStats {
	byJudge := make(map[string][]*domain.EvaluationRecord)
	for _, eval := range evaluations {
		byJudge[eval.JudgeID] = append(byJudge[eval.JudgeID], eval)
	}

	stats := make([]domain.JudgeStats, 0, len(judges))
	for _, judge := range judges {
		row := summarize(judge, byJudge[judge.ID])
		row.SuggestionCount = suggestionCounts[judge.ID]
		stats = append(stats, row)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].DisagreementRate > stats[j].DisagreementRate
	})

	return stats
}

func summarize(judge *domain.Judge, evaluations []*domain.EvaluationRecord) domain.JudgeStats {
	var reviewed, disagreements int
	var aiPass, aiFail, humanPass, humanFail int

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

		if eval.DisagreementFallback() {
			disagreements++
		}
	}

	return domain.JudgeStats{
		JudgeID:            judge.ID,
		JudgeName:          judge.Name,
		TotalEvaluations:   len(evaluations),
		HumanReviewedCount: reviewed,
		DisagreementCount:  disagreements,
		DisagreementRate:   domain.Rate(disagreements, reviewed),
		AIPassRate:         domain.PassRate(aiPass, aiFail),
		HumanPassRate:      domain.PassRate(humanPass, humanFail),
	}
}
