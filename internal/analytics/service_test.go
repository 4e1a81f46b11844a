package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	*fakeMetricsStore

	evaluations map[string][]*domain.EvaluationRecord
	submissions map[string]*domain.Submission
	judges      []*domain.Judge
	counts      map[string]int

	listErr   error
	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		fakeMetricsStore: newFakeMetricsStore(),
		evaluations:      make(map[string][]*domain.EvaluationRecord),
		submissions:      make(map[string]*domain.Submission),
		counts:           make(map[string]int),
	}
}

func (s *fakeStore) ListEvaluations(_ context.Context, judgeID string, _ *domain.TimeRange) ([]*domain.EvaluationRecord, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.evaluations[judgeID], nil
}

func (s *fakeStore) GetSubmissions(_ context.Context, ids []string) (map[string]*domain.Submission, error) {
	result := make(map[string]*domain.Submission)
	for _, id := range ids {
		if sub, ok := s.submissions[id]; ok {
			result[id] = sub
		}
	}
	return result, nil
}

func (s *fakeStore) ListActiveJudges(_ context.Context) ([]*domain.Judge, error) {
	return s.judges, nil
}

func (s *fakeStore) PendingSuggestionCounts(_ context.Context) (map[string]int, error) {
	return s.counts, nil
}

// fakeClock lets tests move time forward between service calls.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestService(store *fakeStore, start time.Time) (*Service, *fakeClock) {
	clock := &fakeClock{current: start}
	svc := NewService(store, time.Hour, 30*24*time.Hour)
	svc.now = clock.Now
	svc.cache.now = clock.Now
	svc.computer.now = clock.Now
	return svc, clock
}

func TestGetMetricsNoData(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, time.Now())

	metrics, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestGetMetricsComputesAndCaches(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.evaluations["judge-1"] = []*domain.EvaluationRecord{
		{ID: "e1", JudgeID: "judge-1", Verdict: domain.VerdictPass},
		{ID: "e2", JudgeID: "judge-1", Verdict: domain.VerdictFail, HumanVerdict: verdictPtr(domain.VerdictPass)},
	}

	svc, _ := newTestService(store, now)

	metrics, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.Equal(t, 2, metrics.TotalEvaluations)
	assert.Equal(t, 1, metrics.HumanReviewedCount)
	assert.Equal(t, 1, store.listCalls)

	// Second read within the freshness window serves the cache.
	again, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, 1, store.listCalls, "fresh cache hit must not refetch")
	assert.Equal(t, metrics.DisagreementRate, again.DisagreementRate)
}

// The trailing period endpoints move with every tick of the clock; a
// snapshot computed at T must still be served from cache at any later
// instant inside the freshness window, and recomputed past it.
func TestGetMetricsCacheHitAsClockAdvances(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.evaluations["judge-1"] = []*domain.EvaluationRecord{
		{ID: "e1", JudgeID: "judge-1", Verdict: domain.VerdictPass},
	}

	svc, clock := newTestService(store, start)

	first, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, 1, store.listCalls)

	clock.Advance(5 * time.Millisecond)
	_, err = svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls, "read moments later must be served from cache")

	clock.Advance(59 * time.Minute)
	served, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, served)
	assert.Equal(t, 1, store.listCalls, "read within the freshness window must be served from cache")
	assert.Equal(t, first.ComputedAt, served.ComputedAt)

	clock.Advance(2 * time.Minute)
	recomputed, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, recomputed)
	assert.Equal(t, 2, store.listCalls, "read past the freshness window must recompute")
	assert.True(t, recomputed.ComputedAt.After(first.ComputedAt))
}

func TestRefreshMetricsBypassesCache(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.evaluations["judge-1"] = []*domain.EvaluationRecord{
		{ID: "e1", JudgeID: "judge-1", Verdict: domain.VerdictPass},
	}

	svc, _ := newTestService(store, now)

	_, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.Equal(t, 1, store.listCalls)

	_, err = svc.RefreshMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls, "refresh must recompute")
}

func TestGetMetricsPropagatesReadFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection reset")

	svc, _ := newTestService(store, time.Now())

	_, err := svc.GetMetrics(context.Background(), "judge-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "judge-1")
}

func TestGetSeriesEmpty(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, time.Now())

	series, err := svc.GetSeries(context.Background(), "judge-1")
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestGetSeriesResolvesQueues(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.evaluations["judge-1"] = []*domain.EvaluationRecord{
		{ID: "e1", JudgeID: "judge-1", RunID: "r1", SubmissionID: "s1", Verdict: domain.VerdictPass, CreatedAt: now},
	}
	store.submissions["s1"] = &domain.Submission{ID: "s1", QueueID: "queue-1"}

	svc, _ := newTestService(store, now)

	series, err := svc.GetSeries(context.Background(), "judge-1")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "queue-1", series[0].QueueID)
}

func TestGetFleetStats(t *testing.T) {
	store := newFakeStore()
	store.judges = []*domain.Judge{
		{ID: "j1", Name: "A"},
		{ID: "j2", Name: "B"},
	}
	store.evaluations["j1"] = []*domain.EvaluationRecord{
		{JudgeID: "j1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictFail)},
	}
	store.counts["j1"] = 2

	svc, _ := newTestService(store, time.Now())

	stats, err := svc.GetFleetStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "j1", stats[0].JudgeID)
	assert.Equal(t, 2, stats[0].SuggestionCount)
	assert.Equal(t, 0, stats[1].TotalEvaluations)
}

// Pattern detection only runs over records that actually disagree, and
// only their submissions are fetched.
func TestGetMetricsFetchesOnlyDisagreementSubmissions(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.evaluations["judge-1"] = []*domain.EvaluationRecord{
		{ID: "e1", JudgeID: "judge-1", SubmissionID: "s1", QuestionID: "q1", Verdict: domain.VerdictFail, HumanVerdict: verdictPtr(domain.VerdictPass), Reasoning: "incomplete"},
		{ID: "e2", JudgeID: "judge-1", SubmissionID: "s2", QuestionID: "q1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictPass)},
	}
	store.submissions["s1"] = &domain.Submission{
		ID:      "s1",
		Answers: map[string]domain.SubmissionAnswer{"q1": {Raw: "short"}},
	}

	svc, _ := newTestService(store, now)

	metrics, err := svc.GetMetrics(context.Background(), "judge-1")
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.NotEmpty(t, metrics.FailurePatterns)
}
