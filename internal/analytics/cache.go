package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/saisaravanan/judgeboard/internal/domain"
)

// DefaultCacheTTL is the freshness window for cached metrics.
const DefaultCacheTTL = time.Hour

// MetricsStore is the slice of the store adapter the cache needs.
// GetCachedMetrics returns the judge's latest snapshot regardless of
// the period it was computed over; keying reads on the judge alone is
// what lets a snapshot stay servable while the trailing period's
// endpoints move with the clock.
type MetricsStore interface {
	GetCachedMetrics(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, error)
	UpsertCachedMetrics(ctx context.Context, metrics *domain.JudgePerformanceMetrics) error
	DeleteCachedMetrics(ctx context.Context, judgeID string) error
}

// MetricsCache decides whether a persisted metrics snapshot is fresh
// enough to serve without recomputation. The clock is injectable so the
// freshness window is testable without real delays.
type MetricsCache struct {
	store MetricsStore
	ttl   time.Duration
	now   func() time.Time
}

func NewMetricsCache(store MetricsStore, ttl time.Duration) *MetricsCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MetricsCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the judge's latest cached snapshot and whether it is
// servable. A stale or absent entry is a miss, not an error.
func (c *MetricsCache) Get(ctx context.Context, judgeID string) (*domain.JudgePerformanceMetrics, bool, error) {
	metrics, err := c.store.GetCachedMetrics(ctx, judgeID)
	if err != nil {
		return nil, false, fmt.Errorf("get cached metrics for judge %s: %w", judgeID, err)
	}
	if metrics == nil {
		return nil, false, nil
	}

	if c.now().Sub(metrics.ComputedAt) >= c.ttl {
		return nil, false, nil
	}

	return metrics, true, nil
}

// Put writes a superseding snapshot for the judge. Concurrent writers
// race last-write-wins; compute is deterministic over the same
// evaluation set, so either write is correct.
func (c *MetricsCache) Put(ctx context.Context, metrics *domain.JudgePerformanceMetrics) error {
	if err := c.store.UpsertCachedMetrics(ctx, metrics); err != nil {
		return fmt.Errorf("upsert cached metrics for judge %s: %w", metrics.JudgeID, err)
	}
	return nil
}

// Invalidate drops every cached entry for a judge, forcing the next
// read to recompute.
func (c *MetricsCache) Invalidate(ctx context.Context, judgeID string) error {
	if err := c.store.DeleteCachedMetrics(ctx, judgeID); err != nil {
		return fmt.Errorf("invalidate cached metrics for judge %s: %w", judgeID, err)
	}
	return nil
}
