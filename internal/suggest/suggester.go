package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/saisaravanan/judgeboard/internal/llm"
)

// Suggester turns detected failure patterns into pending rubric
// suggestions. The analytics engine treats this whole package as an
// external collaborator; it only ever reads pending counts back.
type Suggester struct {
	llmClient *llm.Client
}

func NewSuggester(client *llm.Client) *Suggester {
	return &Suggester{llmClient: client}
}

// GenerateSuggestions produces one suggestion per pattern. Patterns
// whose generation fails are skipped rather than failing the batch.
func (s *Suggester) GenerateSuggestions(ctx context.Context, judgeID string, patterns []domain.FailurePattern) ([]*domain.Suggestion, error) {
	if s.llmClient == nil {
		return nil, fmt.Errorf("llm client not configured")
	}

	var suggestions []*domain.Suggestion
	for i := range patterns {
		suggestion, err := s.generateForPattern(ctx, judgeID, &patterns[i])
		if err != nil {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

func (s *Suggester) generateForPattern(ctx context.Context, judgeID string, pattern *domain.FailurePattern) (*domain.Suggestion, error) {
	prompt := s.buildPrompt(pattern)

	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are an expert at improving AI judge rubrics. Generate actionable rubric changes that would align the judge with human reviewers."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   512,
		Temperature: 0.3,
		JSONMode:    true,
	})

	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	result, err := s.parseResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	now := time.Now()
	return &domain.Suggestion{
		ID:          uuid.New().String(),
		JudgeID:     judgeID,
		PatternType: pattern.Type,
		Suggestion:  result.Suggestion,
		Rationale:   result.Rationale,
		Confidence:  result.Confidence,
		Status:      domain.SuggestionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Suggester) buildPrompt(pattern *domain.FailurePattern) string {
	var sb strings.Builder

	sb.WriteString("The AI judge and human reviewers disagree in a recurring way:\n\n")
	sb.WriteString(fmt.Sprintf("Pattern: %s\n", pattern.Type))
	sb.WriteString(fmt.Sprintf("Description: %s\n", pattern.Description))
	sb.WriteString(fmt.Sprintf("Occurrences: %d\n", pattern.Count))
	sb.WriteString(fmt.Sprintf("AI pass rate in this pattern: %.2f\n", pattern.AIPassRate))
	sb.WriteString(fmt.Sprintf("Human pass rate in this pattern: %.2f\n", pattern.HumanPassRate))

	sb.WriteString(`
Suggest one rubric change. Respond with JSON:
{
  "suggestion": "<specific, actionable rubric change>",
  "rationale": "<why this will close the gap with human reviewers>",
  "confidence": <float 0-1>
}`)

	return sb.String()
}

type suggestionResponse struct {
	Suggestion string  `json:"suggestion"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

func (s *Suggester) parseResponse(content string) (*suggestionResponse, error) {
	var result suggestionResponse
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if result.Confidence == 0 {
		result.Confidence = 0.7
	}

	return &result, nil
}
