package storage

import (
	"context"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

// Store bundles the repositories into the record-store adapter the
// analytics engine consumes.
type Store struct {
	Evaluations *EvaluationRepo
	Submissions *SubmissionRepo
	Judges      *JudgeRepo
	Metrics     *MetricsRepo
	Suggestions *SuggestionRepo
}

func NewStore(db *PostgresDB) *Store {
	return &Store{
		Evaluations: NewEvaluationRepo(db),
		Submissions: NewSubmissionRepo(db),
		Judges:      NewJudgeRepo(db),
		Metrics:     NewMetricsRepo(db),
		Suggestions: NewSuggestionRepo(db),
	}
}

func (s *Store) ListEvaluations(ctx context.Context, judgeID string, timeRange *domain.TimeRange) ([]*domain.EvaluationRecord, error) {
	return s.Evaluations.ListByJudge(ctx, judgeID, timeRange)
}

func (s *Store) GetSubmissions(ctx context.Context, ids []string) (map[string]*domain.Submission, error) {
	return s.Submissions.GetByIDs(ctx, ids)
}

func (s *Store) ListActiveJudges(ctx context.Context) ([]*domain.Judge, error) {
	return s.Judges.ListActive(ctx)
}

func (s *Store) PendingSuggestionCounts(ctx context.Context) (map[string]int, error) {
	return s.Suggestions.PendingCountsByJudge(ctx)
}

func (s *Store) GetCachedMetrics(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, error) {
	return s.Metrics.GetCachedMetrics(ctx, judgeID)
}

func (s *Store) UpsertCachedMetrics(ctx context.Context, metrics *domain.JudgePerformanceMetrics) error {
	return s.Metrics.UpsertCachedMetrics(ctx, metrics)
}

func (s *Store) DeleteCachedMetrics(ctx context.Context, judgeID string) error {
	return s.Metrics.DeleteCachedMetrics(ctx, judgeID)
}
