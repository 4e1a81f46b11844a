package domain

import (
	"encoding/json"
	"time"
)

// Submission is one graded submission, read-only to the analytics
// engine. Answers are keyed by question id.
type Submission struct {
	ID        string                      `json:"id"`
	QueueID   string                      `json:"queue_id"`
	Answers   map[string]SubmissionAnswer `json:"answers"`
	CreatedAt time.Time                   `json:"created_at,omitempty"`
}

// SubmissionAnswer holds one answer to one question. Upstream stores
// answers either as a bare JSON string or as an object carrying text,
// choice and reasoning fields, so unmarshalling accepts both shapes.
type SubmissionAnswer struct {
	Raw       string `json:"-"`
	Text      string `json:"text,omitempty"`
	Choice    string `json:"choice,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

func (a *SubmissionAnswer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Raw = s
		return nil
	}

	type answerObject SubmissionAnswer
	var obj answerObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = SubmissionAnswer(obj)
	return nil
}

func (a SubmissionAnswer) MarshalJSON() ([]byte, error) {
	if a.Raw != "" {
		return json.Marshal(a.Raw)
	}

	type answerObject SubmissionAnswer
	return json.Marshal(answerObject(a))
}

// ResolveText returns the text the pattern heuristics should inspect:
// the raw string form when the answer was a bare string, then the text
// field, then the reasoning field, else empty.
func (a SubmissionAnswer) ResolveText() string {
	if a.Raw != "" {
		return a.Raw
	}
	if a.Text != "" {
		return a.Text
	}
	return a.Reasoning
}

// AnswerText resolves the answer text for one question id, empty when
// the question was never answered.
func (s *Submission) AnswerText(questionID string) string {
	if s == nil {
		return ""
	}
	answer, ok := s.Answers[questionID]
	if !ok {
		return ""
	}
	return answer.ResolveText()
}
