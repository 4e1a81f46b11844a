package analytics

import (
	"sort"
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

const unknownQueueID = "unknown"

// SeriesBuilder groups a judge's evaluations into discrete runs and
// produces one pass-rate data point per run, ordered chronologically.
type SeriesBuilder struct{}

func NewSeriesBuilder() *SeriesBuilder {
	return &SeriesBuilder{}
}

// runKey identifies one evaluation run: an explicit run id when the
// record carries one, otherwise the record's own creation instant. A
// record without a run id therefore forms its own single-record run
// unless another record shares the exact same timestamp. Keeping the
// two variants in one typed key avoids collisions between a real run
// id and a formatted timestamp.
type runKey struct {
	explicit bool
	id       string
	instant  int64
}

func resolveRunKey(eval *domain.EvaluationRecord) runKey {
	if eval.RunID != "" {
		return runKey{explicit: true, id: eval.RunID}
	}
	return runKey{instant: eval.CreatedAt.UnixMilli()}
}

type runGroup struct {
	queueID  string
	earliest time.Time
	members  []*domain.EvaluationRecord
}

// BuildSeries returns one data point per run, ascending by timestamp.
// Empty input yields an empty series, never an error. submissionsByID
// resolves each run's queue id and may be nil.
func (b *SeriesBuilder) BuildSeries(
	evaluations []*domain.EvaluationRecord,
	submissionsByID map[string]*domain.Submission,
) []domain.PassRateDataPoint {
	groups := make(map[runKey]*runGroup)
	var order []runKey

	for _, eval := range evaluations {
		key := resolveRunKey(eval)
		group, ok := groups[key]
		if !ok {
			group = &runGroup{
				queueID:  queueIDFor(eval, submissionsByID),
				earliest: eval.CreatedAt,
			}
			groups[key] = group
			order = append(order, key)
		}
		if eval.CreatedAt.Before(group.earliest) {
			group.earliest = eval.CreatedAt
		}
		group.members = append(group.members, eval)
	}

	points := make([]domain.PassRateDataPoint, 0, len(order))
	for _, key := range order {
		points = append(points, buildDataPoint(groups[key]))
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	return points
}

func queueIDFor(eval *domain.EvaluationRecord, submissionsByID map[string]*domain.Submission) string {
	if sub, ok := submissionsByID[eval.SubmissionID]; ok && sub.QueueID != "" {
		return sub.QueueID
	}
	return unknownQueueID
}

func buildDataPoint(group *runGroup) domain.PassRateDataPoint {
	var aiPass, aiFail, humanPass, humanFail, reviewed int

	for _, eval := range group.members {
		switch eval.Verdict {
		case domain.VerdictPass:
			aiPass++
		case domain.VerdictFail:
			aiFail++
		}

		if !eval.HumanReviewed() {
			continue
		}
		reviewed++
		switch *eval.HumanVerdict {
		case domain.VerdictPass:
			humanPass++
		case domain.VerdictFail:
			humanFail++
		}
	}

	return domain.PassRateDataPoint{
		QueueID:            group.queueID,
		Label:              group.earliest.Format("Jan 2, 15:04"),
		Timestamp:          group.earliest.UnixMilli(),
		AIPassRate:         domain.PassRate(aiPass, aiFail),
		HumanPassRate:      domain.PassRate(humanPass, humanFail),
		TotalEvaluations:   len(group.members),
		HumanReviewedCount: reviewed,
	}
}
