package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

type SubmissionRepo struct {
	db *PostgresDB
}

func NewSubmissionRepo(db *PostgresDB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// GetByIDs fetches submissions by id set, keyed by id. Ids with no row
// are simply absent from the result.
func (r *SubmissionRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Submission, error) {
	if len(ids) == 0 {
		return map[string]*domain.Submission{}, nil
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, queue_id, answers, created_at
		FROM submissions
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	submissions := make(map[string]*domain.Submission, len(ids))
	for rows.Next() {
		var sub domain.Submission
		var answersJSON []byte

		if err := rows.Scan(&sub.ID, &sub.QueueID, &answersJSON, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		if answersJSON != nil {
			if err := json.Unmarshal(answersJSON, &sub.Answers); err != nil {
				return nil, fmt.Errorf("unmarshal answers for %s: %w", sub.ID, err)
			}
		}

		submissions[sub.ID] = &sub
	}

	return submissions, rows.Err()
}
