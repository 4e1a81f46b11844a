package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saisaravanan/judgeboard/internal/domain"
)

type SuggestionRepo struct {
	db *PostgresDB
}

func NewSuggestionRepo(db *PostgresDB) *SuggestionRepo {
	return &SuggestionRepo{db: db}
}

func (r *SuggestionRepo) Create(ctx context.Context, s *domain.Suggestion) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO rubric_suggestions (id, judge_id, pattern_type, suggestion, rationale, confidence, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.JudgeID, s.PatternType, s.Suggestion, s.Rationale, s.Confidence, s.Status, s.CreatedAt, s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

func (r *SuggestionRepo) List(ctx context.Context, judgeID string, status *domain.SuggestionStatus, limit int) ([]*domain.Suggestion, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, judge_id, pattern_type, suggestion, rationale, confidence, status, created_at, updated_at
		FROM rubric_suggestions
		WHERE judge_id = $1
	`
	args := []interface{}{judgeID}

	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var suggestions []*domain.Suggestion
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.JudgeID, &s.PatternType, &s.Suggestion, &s.Rationale, &s.Confidence, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		suggestions = append(suggestions, &s)
	}

	return suggestions, rows.Err()
}

func (r *SuggestionRepo) UpdateStatus(ctx context.Context, id string, status domain.SuggestionStatus) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE rubric_suggestions SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)

	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("suggestion not found")
	}

	return nil
}

// PendingCountsByJudge tallies pending suggestions per judge for the
// fleet overview. Judges without pending rows are absent from the map.
func (r *SuggestionRepo) PendingCountsByJudge(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT judge_id, COUNT(*)
		FROM rubric_suggestions
		WHERE status = 'pending'
		GROUP BY judge_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query pending counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var judgeID string
		var count int
		if err := rows.Scan(&judgeID, &count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[judgeID] = count
	}

	return counts, rows.Err()
}

func (r *SuggestionRepo) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	var s domain.Suggestion
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, judge_id, pattern_type, suggestion, rationale, confidence, status, created_at, updated_at
		FROM rubric_suggestions
		WHERE id = $1
	`, id).Scan(&s.ID, &s.JudgeID, &s.PatternType, &s.Suggestion, &s.Rationale, &s.Confidence, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query: %w", err)
	}

	return &s, nil
}
