package analytics

import (
	"testing"
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeriesEmptyInput(t *testing.T) {
	b := NewSeriesBuilder()
	points := b.BuildSeries(nil, nil)
	assert.Empty(t, points)
}

func TestBuildSeriesGroupsByRunID(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t1.Add(time.Hour)

	evals := []*domain.EvaluationRecord{
		{ID: "e1", RunID: "r1", SubmissionID: "s1", Verdict: domain.VerdictPass, CreatedAt: t2},
		{ID: "e2", RunID: "r1", SubmissionID: "s1", Verdict: domain.VerdictFail, CreatedAt: t1},
		{ID: "e3", SubmissionID: "s2", Verdict: domain.VerdictPass, CreatedAt: t3},
	}

	b := NewSeriesBuilder()
	points := b.BuildSeries(evals, nil)

	require.Len(t, points, 2)
	// Run r1 carries its earliest member's timestamp.
	assert.Equal(t, t1.UnixMilli(), points[0].Timestamp)
	assert.Equal(t, 2, points[0].TotalEvaluations)
	assert.Equal(t, 0.5, points[0].AIPassRate)

	assert.Equal(t, t3.UnixMilli(), points[1].Timestamp)
	assert.Equal(t, 1, points[1].TotalEvaluations)
}

// Records without a run id form separate single-record runs per
// creation instant.
func TestBuildSeriesImplicitRunsPerTimestamp(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	evals := []*domain.EvaluationRecord{
		{ID: "e1", Verdict: domain.VerdictPass, CreatedAt: base.Add(2 * time.Second)},
		{ID: "e2", Verdict: domain.VerdictPass, CreatedAt: base},
		{ID: "e3", Verdict: domain.VerdictFail, CreatedAt: base.Add(time.Second)},
	}

	b := NewSeriesBuilder()
	points := b.BuildSeries(evals, nil)

	require.Len(t, points, 3)
	assert.True(t, points[0].Timestamp <= points[1].Timestamp)
	assert.True(t, points[1].Timestamp <= points[2].Timestamp)
	for _, p := range points {
		assert.Equal(t, 1, p.TotalEvaluations)
	}
}

// A real run id must never collide with an implicit timestamp group.
func TestBuildSeriesNoRunIDTimestampCollision(t *testing.T) {
	ts := time.UnixMilli(1700000000000)

	evals := []*domain.EvaluationRecord{
		{ID: "e1", RunID: "1700000000000", Verdict: domain.VerdictPass, CreatedAt: ts},
		{ID: "e2", Verdict: domain.VerdictFail, CreatedAt: ts},
	}

	b := NewSeriesBuilder()
	points := b.BuildSeries(evals, nil)
	assert.Len(t, points, 2)
}

func TestBuildSeriesQueueIDResolution(t *testing.T) {
	now := time.Now()
	evals := []*domain.EvaluationRecord{
		{ID: "e1", RunID: "r1", SubmissionID: "s1", Verdict: domain.VerdictPass, CreatedAt: now},
		{ID: "e2", RunID: "r2", SubmissionID: "s-missing", Verdict: domain.VerdictPass, CreatedAt: now.Add(time.Minute)},
	}
	subs := map[string]*domain.Submission{
		"s1": {ID: "s1", QueueID: "queue-7"},
	}

	b := NewSeriesBuilder()
	points := b.BuildSeries(evals, subs)

	require.Len(t, points, 2)
	assert.Equal(t, "queue-7", points[0].QueueID)
	assert.Equal(t, "unknown", points[1].QueueID)
}

func TestBuildSeriesCountsHumanReviews(t *testing.T) {
	now := time.Now()
	evals := []*domain.EvaluationRecord{
		{ID: "e1", RunID: "r1", Verdict: domain.VerdictPass, HumanVerdict: verdictPtr(domain.VerdictPass), CreatedAt: now},
		{ID: "e2", RunID: "r1", Verdict: domain.VerdictFail, HumanVerdict: verdictPtr(domain.VerdictInconclusive), CreatedAt: now},
		{ID: "e3", RunID: "r1", Verdict: domain.VerdictPass, CreatedAt: now},
	}

	b := NewSeriesBuilder()
	points := b.BuildSeries(evals, nil)

	require.Len(t, points, 1)
	assert.Equal(t, 3, points[0].TotalEvaluations)
	assert.Equal(t, 2, points[0].HumanReviewedCount)
	// Human pass rate over the single decisive human verdict.
	assert.Equal(t, 1.0, points[0].HumanPassRate)
	assert.InDelta(t, 2.0/3.0, points[0].AIPassRate, 1e-9)
}
