package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saisaravanan/judgeboard/internal/domain"
)

type MetricsRepo struct {
	db *PostgresDB
}

func NewMetricsRepo(db *PostgresDB) *MetricsRepo {
	return &MetricsRepo{db: db}
}

// GetCachedMetrics returns the judge's most recent snapshot, or nil
// when none was ever computed. The trailing period moves with the
// clock, so the lookup is by judge alone; staleness is the caller's
// call via computed_at. Historical rows are retained for audit.
func (r *MetricsRepo) GetCachedMetrics(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, error) {
	var m domain.JudgePerformanceMetrics
	var patternsJSON []byte

	err := r.db.Pool.QueryRow(ctx, `
		SELECT judge_id, period_start, period_end, total_evaluations,
			human_reviewed_count, disagreement_count, disagreement_rate,
			ai_pass_rate, human_pass_rate, failure_patterns, computed_at
		FROM judge_metrics
		WHERE judge_id = $1
		ORDER BY computed_at DESC
		LIMIT 1
	`, judgeID).Scan(
		&m.JudgeID, &m.PeriodStart, &m.PeriodEnd, &m.TotalEvaluations,
		&m.HumanReviewedCount, &m.DisagreementCount, &m.DisagreementRate,
		&m.AIPassRate, &m.HumanPassRate, &patternsJSON, &m.ComputedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query: %w", err)
	}

	if patternsJSON != nil {
		if err := json.Unmarshal(patternsJSON, &m.FailurePatterns); err != nil {
			return nil, fmt.Errorf("unmarshal failure patterns: %w", err)
		}
	}

	return &m, nil
}

// UpsertCachedMetrics writes a superseding snapshot. Earlier rows for
// the same key stay behind for audit; reads always take the latest.
func (r *MetricsRepo) UpsertCachedMetrics(ctx context.Context, m *domain.JudgePerformanceMetrics) error {
	patternsJSON, err := json.Marshal(m.FailurePatterns)
	if err != nil {
		return fmt.Errorf("marshal failure patterns: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO judge_metrics (
			id, judge_id, period_start, period_end, total_evaluations,
			human_reviewed_count, disagreement_count, disagreement_rate,
			ai_pass_rate, human_pass_rate, failure_patterns, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, uuid.New().String(), m.JudgeID, m.PeriodStart, m.PeriodEnd, m.TotalEvaluations,
		m.HumanReviewedCount, m.DisagreementCount, m.DisagreementRate,
		m.AIPassRate, m.HumanPassRate, patternsJSON, m.ComputedAt)

	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

func (r *MetricsRepo) DeleteCachedMetrics(ctx context.Context, judgeID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		DELETE FROM judge_metrics WHERE judge_id = $1
	`, judgeID)

	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
