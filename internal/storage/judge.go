package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saisaravanan/judgeboard/internal/domain"
)

type JudgeRepo struct {
	db *PostgresDB
}

func NewJudgeRepo(db *PostgresDB) *JudgeRepo {
	return &JudgeRepo{db: db}
}

func (r *JudgeRepo) ListActive(ctx context.Context) ([]*domain.Judge, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, model, rubric, active, created_at, updated_at
		FROM judges
		WHERE active = true
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query active judges: %w", err)
	}
	defer rows.Close()

	var judges []*domain.Judge
	for rows.Next() {
		var judge domain.Judge
		if err := rows.Scan(
			&judge.ID, &judge.Name, &judge.Model, &judge.Rubric,
			&judge.Active, &judge.CreatedAt, &judge.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		judges = append(judges, &judge)
	}

	return judges, rows.Err()
}

func (r *JudgeRepo) GetByID(ctx context.Context, id string) (*domain.Judge, error) {
	var judge domain.Judge
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, model, rubric, active, created_at, updated_at
		FROM judges
		WHERE id = $1
	`, id).Scan(
		&judge.ID, &judge.Name, &judge.Model, &judge.Rubric,
		&judge.Active, &judge.CreatedAt, &judge.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query: %w", err)
	}

	return &judge, nil
}
