package domain

import "time"

// PatternType names a recurring disagreement pattern.
type PatternType string

const (
	PatternShortAnswers        PatternType = "short_answers"
	PatternSpellingErrors      PatternType = "spelling_errors"
	PatternIncompleteResponses PatternType = "incomplete_responses"
)

// FailurePattern is one detected disagreement pattern with its own
// pass-rate pair computed over just the pattern's subset. These
// sub-pattern rates are raw passes over bucket size, without the
// decisive-verdict exclusion the top-level metrics apply.
type FailurePattern struct {
	Type          PatternType `json:"pattern_type"`
	Description   string      `json:"description"`
	Count         int         `json:"count"`
	Examples      []string    `json:"examples"`
	AIPassRate    float64     `json:"ai_pass_rate"`
	HumanPassRate float64     `json:"human_pass_rate"`
}

// JudgePerformanceMetrics is a computed snapshot for one judge over one
// period. Superseded, not deleted, by later recomputation.
type JudgePerformanceMetrics struct {
	JudgeID            string           `json:"judge_id"`
	PeriodStart        time.Time        `json:"period_start"`
	PeriodEnd          time.Time        `json:"period_end"`
	TotalEvaluations   int              `json:"total_evaluations"`
	HumanReviewedCount int              `json:"human_reviewed_count"`
	DisagreementCount  int              `json:"disagreement_count"`
	DisagreementRate   float64          `json:"disagreement_rate"`
	AIPassRate         float64          `json:"ai_pass_rate"`
	HumanPassRate      float64          `json:"human_pass_rate"`
	FailurePatterns    []FailurePattern `json:"failure_patterns"`
	ComputedAt         time.Time        `json:"computed_at"`
}

// PassRateDataPoint summarizes one evaluation run for trend charts.
// Timestamp orders the series; Label is display formatting only.
type PassRateDataPoint struct {
	QueueID            string  `json:"queue_id"`
	Label              string  `json:"label"`
	Timestamp          int64   `json:"timestamp"`
	AIPassRate         float64 `json:"ai_pass_rate"`
	HumanPassRate      float64 `json:"human_pass_rate"`
	TotalEvaluations   int     `json:"total_evaluations"`
	HumanReviewedCount int     `json:"human_reviewed_count"`
}

// JudgeStats is one fleet-overview row.
type JudgeStats struct {
	JudgeID            string  `json:"judge_id"`
	JudgeName          string  `json:"judge_name"`
	TotalEvaluations   int     `json:"total_evaluations"`
	HumanReviewedCount int     `json:"human_reviewed_count"`
	DisagreementCount  int     `json:"disagreement_count"`
	DisagreementRate   float64 `json:"disagreement_rate"`
	AIPassRate         float64 `json:"ai_pass_rate"`
	HumanPassRate      float64 `json:"human_pass_rate"`
	SuggestionCount    int     `json:"suggestion_count"`
}

// PassRate is the decisive-verdict rate: passes over passes plus fails,
// 0 when there are no decisive verdicts.
func PassRate(passes, fails int) float64 {
	if passes+fails == 0 {
		return 0
	}
	return float64(passes) / float64(passes+fails)
}

// Rate guards a plain numerator/denominator division against a zero
// denominator.
func Rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
