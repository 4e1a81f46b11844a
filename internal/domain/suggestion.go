package domain

import "time"

type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusApproved SuggestionStatus = "approved"
	SuggestionStatusRejected SuggestionStatus = "rejected"
	SuggestionStatusApplied  SuggestionStatus = "applied"
)

// Suggestion is a human-readable rubric improvement generated from a
// detected failure pattern. The analytics engine only ever reads
// pending counts; generation and review live outside it.
type Suggestion struct {
	ID          string           `json:"id"`
	JudgeID     string           `json:"judge_id"`
	PatternType PatternType      `json:"pattern_type"`
	Suggestion  string           `json:"suggestion"`
	Rationale   string           `json:"rationale"`
	Confidence  float64          `json:"confidence"`
	Status      SuggestionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
