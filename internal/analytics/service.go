package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

// DefaultMetricsPeriod is the trailing window metrics are computed over
// when the caller does not supply one.
const DefaultMetricsPeriod = 30 * 24 * time.Hour

// Store is the record-store adapter the engine consumes. Reads are the
// only suspending operations in this package; every computation runs
// over its own fetched snapshot.
type Store interface {
	MetricsStore
	ListEvaluations(ctx context.Context, judgeID string, timeRange *domain.TimeRange) ([]*domain.EvaluationRecord, error)
	GetSubmissions(ctx context.Context, ids []string) (map[string]*domain.Submission, error)
	ListActiveJudges(ctx context.Context) ([]*domain.Judge, error)
	PendingSuggestionCounts(ctx context.Context) (map[string]int, error)
}

// Service is the engine's entry point for the presentation layer:
// cache-aware per-judge metrics, forced refresh, run-bucketed series
// and the fleet overview.
type Service struct {
	store    Store
	cache    *MetricsCache
	computer *Computer
	series   *SeriesBuilder
	fleet    *FleetAggregator
	period   time.Duration
	now      func() time.Time
}

func NewService(store Store, cacheTTL, period time.Duration) *Service {
	if period <= 0 {
		period = DefaultMetricsPeriod
	}
	return &Service{
		store:    store,
		cache:    NewMetricsCache(store, cacheTTL),
		computer: NewComputer(),
		series:   NewSeriesBuilder(),
		fleet:    NewFleetAggregator(),
		period:   period,
		now:      time.Now,
	}
}

// GetMetrics serves the cached snapshot when it is fresh and recomputes
// otherwise. Returns nil when the judge has no evaluations in the
// period; that is a valid no-data state, not an error.
func (s *Service) GetMetrics(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, error) {
	cached, fresh, err := s.cache.Get(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	if fresh {
		return cached, nil
	}

	periodStart, periodEnd := s.currentPeriod()
	return s.computeAndCache(ctx, judgeID, periodStart, periodEnd)
}

// RefreshMetrics recomputes unconditionally, bypassing the freshness
// window. Backs the explicit "refresh metrics" user action.
func (s *Service) RefreshMetrics(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, error) {
	periodStart, periodEnd := s.currentPeriod()
	return s.computeAndCache(ctx, judgeID, periodStart, periodEnd)
}

func (s *Service) computeAndCache(ctx context.Context, judgeID string, periodStart, periodEnd time.Time) (*domain.JudgePerformanceMetrics, error) {
	evaluations, err := s.store.ListEvaluations(ctx, judgeID, &domain.TimeRange{From: periodStart, To: periodEnd})
	if err != nil {
		return nil, fmt.Errorf("list evaluations for judge %s: %w", judgeID, err)
	}
	if len(evaluations) == 0 {
		return nil, nil
	}

	submissions, err := s.fetchDisagreementSubmissions(ctx, judgeID, evaluations)
	if err != nil {
		return nil, err
	}

	metrics := s.computer.Compute(judgeID, evaluations, submissions, periodStart, periodEnd)
	if metrics == nil {
		return nil, nil
	}

	if err := s.cache.Put(ctx, metrics); err != nil {
		return nil, err
	}

	return metrics, nil
}

// fetchDisagreementSubmissions pulls only the submissions the pattern
// detector will actually inspect.
func (s *Service) fetchDisagreementSubmissions(ctx context.Context, judgeID string, evaluations []*domain.EvaluationRecord) (map[string]*domain.Submission, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, eval := range evaluations {
		if !eval.DisagreementStrict() || seen[eval.SubmissionID] {
			continue
		}
		seen[eval.SubmissionID] = true
		ids = append(ids, eval.SubmissionID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	submissions, err := s.store.GetSubmissions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get submissions for judge %s: %w", judgeID, err)
	}
	return submissions, nil
}

// GetSeries builds the run-bucketed pass-rate series for a judge.
// Never cached; an empty series is the no-data state.
func (s *Service) GetSeries(ctx context.Context, judgeID string) ([]domain.PassRateDataPoint, error) {
	evaluations, err := s.store.ListEvaluations(ctx, judgeID, nil)
	if err != nil {
		return nil, fmt.Errorf("list evaluations for judge %s: %w", judgeID, err)
	}
	if len(evaluations) == 0 {
		return []domain.PassRateDataPoint{}, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, eval := range evaluations {
		if seen[eval.SubmissionID] {
			continue
		}
		seen[eval.SubmissionID] = true
		ids = append(ids, eval.SubmissionID)
	}

	submissions, err := s.store.GetSubmissions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get submissions for judge %s: %w", judgeID, err)
	}

	return s.series.BuildSeries(evaluations, submissions), nil
}

// GetFleetStats summarizes every active judge, sorted by disagreement
// rate descending. Always computed from fresh reads.
func (s *Service) GetFleetStats(ctx context.Context) ([]domain.JudgeStats, error) {
	judges, err := s.store.ListActiveJudges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active judges: %w", err)
	}
	if len(judges) == 0 {
		return []domain.JudgeStats{}, nil
	}

	periodStart, periodEnd := s.currentPeriod()
	timeRange := &domain.TimeRange{From: periodStart, To: periodEnd}

	var all []*domain.EvaluationRecord
	for _, judge := range judges {
		evaluations, err := s.store.ListEvaluations(ctx, judge.ID, timeRange)
		if err != nil {
			return nil, fmt.Errorf("list evaluations for judge %s: %w", judge.ID, err)
		}
		all = append(all, evaluations...)
	}

	counts, err := s.store.PendingSuggestionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending suggestion counts: %w", err)
	}

	return s.fleet.Aggregate(judges, all, counts), nil
}

// Invalidate drops a judge's cached metrics, typically after new
// records or a completed review land for that judge.
func (s *Service) Invalidate(ctx context.Context, judgeID string) error {
	return s.cache.Invalidate(ctx, judgeID)
}

func (s *Service) currentPeriod() (time.Time, time.Time) {
	end := s.now()
	return end.Add(-s.period), end
}
