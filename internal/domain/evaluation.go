package domain

import "time"

// Verdict is the outcome a judge (AI or human) assigns to one answer.
// Inconclusive verdicts may carry a subtype suffix such as
// VerdictInconclusiveBadData; anything that is not an explicit pass or
// fail is treated as non-decisive.
type Verdict string

const (
	VerdictPass         Verdict = "pass"
	VerdictFail         Verdict = "fail"
	VerdictInconclusive Verdict = "inconclusive"

	VerdictInconclusiveBadData Verdict = "inconclusive_bad_data"
)

// Decisive reports whether the verdict counts toward pass-rate
// denominators. Inconclusive verdicts and their subtypes do not.
func (v Verdict) Decisive() bool {
	return v == VerdictPass || v == VerdictFail
}

// EvaluationRecord is one AI-judged answer to one question within one
// submission. The human side is absent until a reviewer completes the
// record; all human fields are set together in a single update.
type EvaluationRecord struct {
	ID           string `json:"id"`
	JudgeID      string `json:"judge_id"`
	SubmissionID string `json:"submission_id"`
	QuestionID   string `json:"question_id"`
	RunID        string `json:"run_id,omitempty"`

	Verdict   Verdict `json:"verdict"`
	Reasoning string  `json:"reasoning"`

	HumanVerdict   *Verdict   `json:"human_verdict,omitempty"`
	HumanReasoning string     `json:"human_reasoning,omitempty"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`

	// IsDisagreement is the flag stored at review time. It can encode
	// reviewer intent the plain verdict comparison cannot (inconclusive
	// subtypes), so when present it wins over recomputing equality.
	IsDisagreement *bool `json:"is_disagreement,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HumanReviewed reports whether a human verdict exists, regardless of
// whether that verdict is decisive.
func (e *EvaluationRecord) HumanReviewed() bool {
	return e.HumanVerdict != nil
}

// DisagreementStrict prefers the stored is_disagreement flag and falls
// back to verdict inequality only when the flag was never written.
// Per-judge metrics use this rule.
func (e *EvaluationRecord) DisagreementStrict() bool {
	if e.IsDisagreement != nil {
		return *e.IsDisagreement
	}
	return e.DisagreementFallback()
}

// DisagreementFallback is the coarser equality rule: a human verdict
// exists and differs from the AI verdict. Fleet aggregation uses this
// rule directly; the two rules are kept separate on purpose rather
// than unified behind one predicate.
func (e *EvaluationRecord) DisagreementFallback() bool {
	return e.HumanVerdict != nil && *e.HumanVerdict != e.Verdict
}

// TimeRange bounds an evaluation query. Zero values mean unbounded.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ReviewRequest is the payload a reviewer submits to complete a record.
type ReviewRequest struct {
	HumanVerdict   Verdict `json:"human_verdict"`
	HumanReasoning string  `json:"human_reasoning,omitempty"`
	ReviewedBy     string  `json:"reviewed_by"`
	IsDisagreement *bool   `json:"is_disagreement,omitempty"`
}
