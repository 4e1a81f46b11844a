package analytics

import (
	"testing"

	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSortsByDisagreementRateDescending(t *testing.T) {
	judges := []*domain.Judge{
		{ID: "j1", Name: "Essay Judge"},
		{ID: "j2", Name: "Math Judge"},
		{ID: "j3", Name: "Code Judge"},
	}
	evals := []*domain.EvaluationRecord{
		// j1: 1 of 2 reviewed disagrees.
		{JudgeID: "j1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictFail)},
		{JudgeID: "j1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictPass)},
		// j2: 1 of 1 reviewed disagrees.
		{JudgeID: "j2", Verdict: domain.VerdictFail, HumanVerdict: verdictPtr(domain.VerdictPass)},
		// j3: full agreement.
		{JudgeID: "j3", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictPass)},
	}

	a := NewFleetAggregator()
	stats := a.Aggregate(judges, evals, nil)

	require.Len(t, stats, 3)
	assert.Equal(t, "j2", stats[0].JudgeID)
	assert.Equal(t, "j1", stats[1].JudgeID)
	assert.Equal(t, "j3", stats[2].JudgeID)

	for i := 1; i < len(stats); i++ {
		assert.GreaterOrEqual(t, stats[i-1].DisagreementRate, stats[i].DisagreementRate)
	}
}

func TestAggregateIncludesJudgesWithNoEvaluations(t *testing.T) {
	judges := []*domain.Judge{{ID: "j1", Name: "Idle Judge"}}

	a := NewFleetAggregator()
	stats := a.Aggregate(judges, nil, nil)

	require.Len(t, stats, 1)
	assert.Equal(t, 0, stats[0].TotalEvaluations)
	assert.Equal(t, 0.0, stats[0].DisagreementRate)
	assert.Equal(t, 0.0, stats[0].AIPassRate)
	assert.Equal(t, 0.0, stats[0].HumanPassRate)
}

// The fleet path counts disagreements by verdict inequality even when
// the stored flag says otherwise; per-judge metrics do the opposite.
func TestAggregateUsesFallbackRule(t *testing.T) {
	judges := []*domain.Judge{{ID: "j1", Name: "Judge"}}
	evals := []*domain.EvaluationRecord{
		{
			JudgeID:        "j1",
			Verdict:        domain.VerdictPass,
			HumanVerdict:   verdictPtr(domain.VerdictFail),
			IsDisagreement: boolPtr(false),
		},
	}

	a := NewFleetAggregator()
	stats := a.Aggregate(judges, evals, nil)

	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].DisagreementCount)
}

func TestAggregateMergesSuggestionCounts(t *testing.T) {
	judges := []*domain.Judge{
		{ID: "j1", Name: "A"},
		{ID: "j2", Name: "B"},
	}
	counts := map[string]int{"j1": 3}

	a := NewFleetAggregator()
	stats := a.Aggregate(judges, nil, counts)

	require.Len(t, stats, 2)
	byID := map[string]domain.JudgeStats{}
	for _, s := range stats {
		byID[s.JudgeID] = s
	}
	assert.Equal(t, 3, byID["j1"].SuggestionCount)
	assert.Equal(t, 0, byID["j2"].SuggestionCount)
}
