package domain

import "time"

// Judge is a configured AI evaluator: a prompt plus a model that
// renders verdicts on submitted answers.
type Judge struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model,omitempty"`
	Rubric    string    `json:"rubric,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
