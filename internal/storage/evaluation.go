package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saisaravanan/judgeboard/internal/domain"
)

type EvaluationRepo struct {
	db *PostgresDB
}

func NewEvaluationRepo(db *PostgresDB) *EvaluationRepo {
	return &EvaluationRepo{db: db}
}

const evaluationColumns = `id, judge_id, submission_id, question_id, run_id,
	verdict, reasoning, human_verdict, human_reasoning, reviewed_by, reviewed_at,
	is_disagreement, created_at`

func (r *EvaluationRepo) Create(ctx context.Context, eval *domain.EvaluationRecord) error {
	if eval.ID == "" {
		eval.ID = uuid.New().String()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now()
	}

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO evaluation_records (
			id, judge_id, submission_id, question_id, run_id,
			verdict, reasoning, created_at
		)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
	`, eval.ID, eval.JudgeID, eval.SubmissionID, eval.QuestionID, eval.RunID,
		eval.Verdict, eval.Reasoning, eval.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

func (r *EvaluationRepo) CreateBatch(ctx context.Context, evals []*domain.EvaluationRecord) error {
	batch := &pgx.Batch{}
	now := time.Now()

	for _, eval := range evals {
		if eval.ID == "" {
			eval.ID = uuid.New().String()
		}
		if eval.CreatedAt.IsZero() {
			eval.CreatedAt = now
		}

		batch.Queue(`
			INSERT INTO evaluation_records (
				id, judge_id, submission_id, question_id, run_id,
				verdict, reasoning, created_at
			)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		`, eval.ID, eval.JudgeID, eval.SubmissionID, eval.QuestionID, eval.RunID,
			eval.Verdict, eval.Reasoning, eval.CreatedAt)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range evals {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}

	return nil
}

// ListByJudge returns a judge's records, oldest first, optionally
// bounded by a time range.
func (r *EvaluationRepo) ListByJudge(ctx context.Context, judgeID string, timeRange *domain.TimeRange) ([]*domain.EvaluationRecord, error) {
	conditions := []string{"judge_id = $1"}
	args := []interface{}{judgeID}
	argIdx := 2

	if timeRange != nil {
		if !timeRange.From.IsZero() {
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
			args = append(args, timeRange.From)
			argIdx++
		}
		if !timeRange.To.IsZero() {
			conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
			args = append(args, timeRange.To)
			argIdx++
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluation_records
		WHERE %s
		ORDER BY created_at ASC
	`, evaluationColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.scanEvaluations(rows)
}

func (r *EvaluationRepo) GetByID(ctx context.Context, id string) (*domain.EvaluationRecord, error) {
	row := r.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM evaluation_records WHERE id = $1
	`, evaluationColumns), id)

	eval, err := scanEvaluation(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	return eval, nil
}

// CompleteReview sets the entire human side of a record in one
// statement: verdict, reasoning, reviewer, timestamp and the stored
// disagreement flag land together or not at all. A nil IsDisagreement
// leaves the flag unset; readers then fall back to the equality rule.
func (r *EvaluationRepo) CompleteReview(ctx context.Context, id string, review *domain.ReviewRequest) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE evaluation_records
		SET human_verdict = $2, human_reasoning = $3, reviewed_by = $4,
			reviewed_at = $5, is_disagreement = $6
		WHERE id = $1
	`, id, review.HumanVerdict, review.HumanReasoning, review.ReviewedBy,
		time.Now(), review.IsDisagreement)

	if err != nil {
		return fmt.Errorf("complete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("evaluation record not found")
	}

	return nil
}

func (r *EvaluationRepo) scanEvaluations(rows pgx.Rows) ([]*domain.EvaluationRecord, error) {
	var evals []*domain.EvaluationRecord

	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		evals = append(evals, eval)
	}

	return evals, rows.Err()
}

func scanEvaluation(row pgx.Row) (*domain.EvaluationRecord, error) {
	var eval domain.EvaluationRecord
	var runID, humanVerdict, humanReasoning *string

	if err := row.Scan(
		&eval.ID, &eval.JudgeID, &eval.SubmissionID, &eval.QuestionID, &runID,
		&eval.Verdict, &eval.Reasoning, &humanVerdict, &humanReasoning,
		&eval.ReviewedBy, &eval.ReviewedAt, &eval.IsDisagreement, &eval.CreatedAt,
	); err != nil {
		return nil, err
	}

	if runID != nil {
		eval.RunID = *runID
	}
	if humanVerdict != nil {
		v := domain.Verdict(*humanVerdict)
		eval.HumanVerdict = &v
	}
	if humanReasoning != nil {
		eval.HumanReasoning = *humanReasoning
	}

	return &eval, nil
}
